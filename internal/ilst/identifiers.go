package ilst

// WellKnown gives a human-readable name for the FourCC identifiers this
// library recognizes by convention. An identifier absent from this table is
// still decoded and round-tripped (see data.go) — the table exists for
// diagnostics and the root package's name lookups, not for gating what can
// be read.
var WellKnown = map[string]string{
	"\xa9alb": "album",
	"\xa9ART": "artist",
	"\xa9art": "artist",
	"aART":    "album_artist",
	"\xa9day": "year",
	"\xa9nam": "title",
	"\xa9gen": "genre",
	"gnre":    "genre_id",
	"geID":    "genre_id_itunes",
	"trkn":    "track",
	"disk":    "disc",
	"\xa9wrt": "composer",
	"\xa9too": "encoder",
	"cprt":    "copyright",
	"covr":    "cover_art",
	"\xa9grp": "grouping",
	"keyw":    "keyword",
	"\xa9lyr": "lyrics",
	"\xa9cmt": "comment",
	"tmpo":    "tempo",
	"cpil":    "compilation",
	"pgap":    "gapless_playback",
	"tvsh":    "tv_show",
	"tven":    "tv_episode_id",
	"tves":    "tv_episode",
	"tvsn":    "tv_season",
	"tvnn":    "tv_network",
	"desc":    "description",
	"ldes":    "long_description",
	"catg":    "category",
	"purd":    "purchase_date",
	"purl":    "podcast_url",
	"egid":    "episode_guid",
	"stik":    "media_type",
	"rtng":    "rating",
	"sosn":    "sort_show",
	"soal":    "sort_album",
	"soar":    "sort_artist",
	"sonm":    "sort_name",
	"soco":    "sort_composer",
	"\xa9enc": "encoded_by",
	"\xa9pub": "publisher",
	"\xa9xyz": "location",
	"\xa9cpy": "copyright_quicktime",
}

// FreeformMean is the reverse-DNS namespace iTunes itself writes for
// freeform "----" entries. Comparison stays byte-exact on both parts of a
// freeform identifier, so other namespaces are distinct identifiers, not
// variants of this one.
const FreeformMean = "com.apple.iTunes"

// Name returns the human-readable name for a FourCC identifier, if known.
func Name(fourCC string) (string, bool) {
	name, ok := WellKnown[fourCC]
	return name, ok
}
