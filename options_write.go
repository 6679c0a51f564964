package mp4tag

// SaveOption configures Save/SaveAs behavior using the functional options
// pattern.
//
// Example:
//
//	err := f.Save(
//	    mp4tag.WithBackup(".bak"),
//	    mp4tag.WithValidation(),
//	)
type SaveOption func(*saveOptions)

// saveOptions holds configuration for saving files.
type saveOptions struct {
	backupSuffix    string
	validate        bool
	preserveModTime bool
	forceRelocate   bool
}

// defaultSaveOptions returns the default configuration: no backup, no
// post-write validation, modification time updated, cheapest strategy
// chosen automatically.
func defaultSaveOptions() *saveOptions {
	return &saveOptions{}
}

// WithBackup renames the existing file at outputPath to outputPath+suffix
// after the temp file is written and just before the temp file is renamed
// into place. If a backup already exists at that path it is overwritten.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) { o.backupSuffix = suffix }
}

// WithValidation re-opens the written file after Save/SaveAs completes and
// compares its Tag against the one that was written, returning an error on
// any mismatch. This adds a full re-parse but catches a Rewrite Engine bug
// before the caller trusts the result.
func WithValidation() SaveOption {
	return func(o *saveOptions) { o.validate = true }
}

// WithPreserveModTime restores the original file's modification time after
// writing, rather than leaving the filesystem's default "just written"
// timestamp.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) { o.preserveModTime = true }
}

// WithForceRelocate always takes the Rewrite Engine's full-relocation
// strategy, even when an in-place or absorb-free write would suffice.
// Useful for defragmenting a file that has accumulated excessive free
// padding from previous edits.
func WithForceRelocate() SaveOption {
	return func(o *saveOptions) { o.forceRelocate = true }
}
