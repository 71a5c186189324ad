package model

// Instruments lists the ESO instruments offered as favourites, in display order
var Instruments = []string{
	"AMBER", "APEX", "APICAM", "CES", "CRIRES", "EFOSC2", "EMMI", "ERIS", "ESPRESSO",
	"FEROS", "FORS1/2", "GIRAFFE", "GRAVITY", "GROND", "HARPS", "HAWKI", "ISAAC", "KMOS",
	"LGSF", "NACO", "MAD", "MASCOT", "MATISSE", "MIDI", "MUSE", "OMEGACAM", "PIONIER",
	"SINFONI", "SOFI", "SPECULOOS", "SPHERE", "SUSI", "TIMMI2", "UVES", "VIMOS", "VINCI",
	"VIRCAM", "VISIR", "WFCAM", "WFI", "XSHOOTER",
}

// AllFavorites is the instrument choice that queries every favourite at once
const AllFavorites = "All above"

// DefaultFavorite is enabled in a freshly created configuration
const DefaultFavorite = "SPHERE"
