package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/esoquery/esoquery/internal/model"
)

func TestFormatField_ObjectPlaceholders(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"placeholders dropped", []string{"", "OBJECT", "M31"}, "M31"},
		{"only placeholders", []string{"", "OBJECT"}, EmptySummary},
		{"name not set", []string{"OBJECT NAME NOT SET", "HD 61005", "OBJECT NAME NOT SET"}, "HD 61005"},
		{"all three placeholders", []string{"OBJECT NAME NOT SET", "", "OBJECT"}, EmptySummary},
		{"several names", []string{"NGC 253", "M31", "OBJECT", "M31"}, "M31\nNGC 253"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatField(model.ColObject, tt.values))
		})
	}
}

func TestFormatField_PlaceholdersKeptOutsideObject(t *testing.T) {
	assert.Equal(t, "OBJECT", FormatField("dp_type", []string{"OBJECT", "OBJECT"}))
	assert.Equal(t, EmptySummary, FormatField("filter_path", nil))
}

func TestFormatField_CoordinateMean(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"numerically equal values count once", []string{"10", "10.00", "20"}, "15.0000"},
		{"repeated values count once", []string{"116.4812", "116.4812", "116.5"}, "116.4906"},
		{"non numeric ignored", []string{"", "n/a", "-32"}, "-32.0000"},
		{"nothing numeric", []string{"", "n/a"}, EmptySummary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatField(model.ColRA, tt.values))
		})
	}
}

func TestFormatField_NumericOrder(t *testing.T) {
	assert.Equal(t, "99\n100\n1200", FormatField("ob_id", []string{"100", "99", "1200", "100"}))
	assert.Equal(t, "099.C-0123(A)\n100.C-0001(B)", FormatField(model.ColProgID, []string{"100.C-0001(B)", "099.C-0123(A)"}))
}
