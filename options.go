package mp4tag

// Option configures Open/OpenReader behavior using the functional options
// pattern.
//
// Example:
//
//	f, err := mp4tag.Open("song.m4a",
//	    mp4tag.WithStrictParsing(),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	strictParsing  bool
	ignoreWarnings bool
	requireTag     bool
	altMetaRoot    bool
}

// defaultOptions returns the default configuration: best-effort reading,
// an absent tag treated as empty, warnings collected rather than
// suppressed.
func defaultOptions() *openOptions {
	return &openOptions{}
}

// WithStrictParsing turns an unrecognized or missing file brand, which
// would otherwise be recorded as a Warning, into a fatal
// UnknownFiletypeError instead. Non-printable identifier codes are still
// recorded as Warnings.
func WithStrictParsing() Option {
	return func(o *openOptions) { o.strictParsing = true }
}

// WithIgnoreWarnings discards File.Warnings rather than collecting them.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) { o.ignoreWarnings = true }
}

// WithRequireTag makes Open return NoTagError instead of an empty Tag when
// moov/udta/meta/ilst is absent. By default an absent chain is
// indistinguishable from a present-but-empty one.
func WithRequireTag() Option {
	return func(o *openOptions) { o.requireTag = true }
}

// WithAlternateMetaRoot additionally probes for a meta/ilst chain directly
// under the file root when the canonical moov/udta/meta/ilst path is
// absent — a shape some nonstandard files in the wild carry. Disabled by
// default: it is an opt-in relaxation, not a correctness fix for
// well-formed files.
func WithAlternateMetaRoot() Option {
	return func(o *openOptions) { o.altMetaRoot = true }
}
