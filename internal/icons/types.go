package icons

import "fmt"

// Type represents the category of a badge icon.
type Type string

const (
	// TypeLanguage represents audio language badges.
	TypeLanguage Type = "language"
	// TypeSubtitle represents subtitle language badges.
	TypeSubtitle Type = "subtitle"
	// TypeChannel represents audio channel layout badges.
	TypeChannel Type = "channel"
	// TypeVideoFormat represents video format badges (HDR variants etc.).
	TypeVideoFormat Type = "videoformat"
	// TypeResolution represents resolution badges.
	TypeResolution Type = "resolution"
	// TypeAudioCodec represents audio codec badges.
	TypeAudioCodec Type = "audiocodec"
	// TypeVideoCodec represents video codec badges.
	TypeVideoCodec Type = "videocodec"
	// TypeTag represents free-form tag badges.
	TypeTag Type = "tag"
	// TypeCommunityRating represents community rating badges.
	TypeCommunityRating Type = "communityrating"
	// TypeAspectRatio represents aspect ratio badges.
	TypeAspectRatio Type = "aspectratio"
	// TypeParentalRating represents parental rating badges.
	TypeParentalRating Type = "parentalrating"
	// TypeSource represents media source badges (remux, bluray, ...).
	TypeSource Type = "source"
	// TypeFrameRate represents frame rate badges.
	TypeFrameRate Type = "framerate"
	// TypeOriginalLanguage represents original language badges.
	TypeOriginalLanguage Type = "originallanguage"
)

// All lists every icon type in canonical order. This order is part of
// the composite cache key derivation and must stay stable.
var All = []Type{
	TypeLanguage,
	TypeSubtitle,
	TypeChannel,
	TypeVideoFormat,
	TypeResolution,
	TypeAudioCodec,
	TypeVideoCodec,
	TypeTag,
	TypeCommunityRating,
	TypeAspectRatio,
	TypeParentalRating,
	TypeSource,
	TypeFrameRate,
	TypeOriginalLanguage,
}

// Prefixes maps each icon type to the short filename prefix used for
// custom-folder files ("{prefix}.{name}.png") and embedded resources
// ("embedded_{prefix}_{name}").
var Prefixes = map[Type]string{
	TypeLanguage:         "lang",
	TypeSubtitle:         "sub",
	TypeChannel:          "ch",
	TypeVideoFormat:      "vf",
	TypeResolution:       "res",
	TypeAudioCodec:       "ac",
	TypeVideoCodec:       "vc",
	TypeTag:              "tag",
	TypeCommunityRating:  "cr",
	TypeAspectRatio:      "ar",
	TypeParentalRating:   "pr",
	TypeSource:           "src",
	TypeFrameRate:        "fr",
	TypeOriginalLanguage: "olang",
}

var typeByPrefix map[string]Type

func init() {
	typeByPrefix = make(map[string]Type, len(Prefixes))
	for t, p := range Prefixes {
		if other, ok := typeByPrefix[p]; ok {
			panic(fmt.Sprintf("icons: prefix %q shared by %s and %s", p, other, t))
		}
		typeByPrefix[p] = t
	}
	if len(Prefixes) != len(All) {
		panic("icons: prefix table and type list out of sync")
	}
}

// Prefix returns the filename prefix for t, or "" for an unknown type.
func (t Type) Prefix() string {
	return Prefixes[t]
}

// Valid reports whether t is one of the defined icon types.
func (t Type) Valid() bool {
	_, ok := Prefixes[t]
	return ok
}

// TypeByPrefix resolves a filename prefix back to its icon type.
func TypeByPrefix(prefix string) (Type, bool) {
	t, ok := typeByPrefix[prefix]
	return t, ok
}

// LoadingMode selects which byte sources the icon byte cache consults.
type LoadingMode string

const (
	// LoadCustomThenBuiltIn tries the custom folder first and falls
	// back to the embedded bundle. This is the default mode.
	LoadCustomThenBuiltIn LoadingMode = "custom-then-builtin"
	// LoadCustomOnly never consults the embedded bundle.
	LoadCustomOnly LoadingMode = "custom"
	// LoadBuiltInOnly never touches the custom folder.
	LoadBuiltInOnly LoadingMode = "builtin"
)

// Extensions lists the supported image file extensions for custom
// folder icons, in probe order.
var Extensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif"}

// SupportedExtension reports whether ext (lowercase, with leading dot)
// is a supported icon image extension.
func SupportedExtension(ext string) bool {
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
