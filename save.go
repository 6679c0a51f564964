package mp4tag

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/simonhull/mp4tag/internal/binary"
	"github.com/simonhull/mp4tag/internal/ilst"
	"github.com/simonhull/mp4tag/internal/rewrite"
)

// Save writes f.Tag back into the original file at f.Path.
//
// Save is atomic: it renders the complete replacement file bytes, writes
// them to a temporary file in the same directory, fsyncs, then renames
// over the original. A failure at any step before the rename leaves the
// original file byte-for-byte unchanged.
func (f *File) Save(opts ...SaveOption) error {
	return f.SaveAs(f.Path, opts...)
}

// SaveAs writes f.Tag to outputPath using the same atomic temp+fsync+rename
// sequence as Save.
//
// SaveAs requires a recognized FileType: an unrecognized or absent ftyp
// brand returns UnknownFiletypeError rather than guessing a synthesis
// flavor.
func (f *File) SaveAs(outputPath string, opts ...SaveOption) error {
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}

	if f.Type == nil || !f.Type.Recognized() {
		brand := ""
		if f.Type != nil {
			brand = f.Type.MajorBrand
		}
		return &UnknownFiletypeError{Path: f.Path, Brand: brand}
	}
	if f.r == nil {
		return fmt.Errorf("%s: file not open for reading", f.Path)
	}

	out, err := f.render(options)
	if err != nil {
		return err
	}

	var origModTime os.FileInfo
	if options.preserveModTime {
		if info, statErr := os.Stat(f.Path); statErr == nil {
			origModTime = info
		}
	}

	outputDir := filepath.Dir(outputPath)
	tmp, err := os.CreateTemp(outputDir, ".mp4tag-*.tmp")
	if err != nil {
		return &IOError{Path: outputPath, Op: "create temp", Err: err}
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(out); err != nil {
		return &IOError{Path: tmpPath, Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &IOError{Path: tmpPath, Op: "fsync", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Path: tmpPath, Op: "close", Err: err}
	}

	if options.backupSuffix != "" {
		backupPath := outputPath + options.backupSuffix
		if _, statErr := os.Stat(outputPath); statErr == nil {
			if err := os.Rename(outputPath, backupPath); err != nil {
				return &IOError{Path: backupPath, Op: "backup", Err: err}
			}
		}
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return &IOError{Path: outputPath, Op: "rename", Err: err}
	}
	committed = true

	if options.preserveModTime && origModTime != nil {
		_ = os.Chtimes(outputPath, origModTime.ModTime(), origModTime.ModTime())
	}

	if options.validate {
		if err := f.validateWrittenFile(outputPath); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return nil
}

// WriteTo renders f.Tag into a complete replacement file and writes it
// sequentially to w, returning the byte count. Unlike Save/SaveAs there is
// no temp file or rename: atomicity is the caller's concern, which is what
// makes WriteTo suitable for sockets, pipes, and other non-seekable sinks.
// Buffered writers and os.File sinks are flushed before returning.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	if f.Type == nil || !f.Type.Recognized() {
		brand := ""
		if f.Type != nil {
			brand = f.Type.MajorBrand
		}
		return 0, &UnknownFiletypeError{Path: f.Path, Brand: brand}
	}
	if f.r == nil {
		return 0, fmt.Errorf("%s: file not open for reading", f.Path)
	}

	out, err := f.render(defaultSaveOptions())
	if err != nil {
		return 0, err
	}

	bw := binary.NewWriter(w)
	if _, err := bw.Write(out); err != nil {
		return bw.Count(), &IOError{Path: f.Path, Op: "write", Err: err}
	}
	if err := bw.Flush(); err != nil {
		return bw.Count(), &IOError{Path: f.Path, Op: "flush", Err: err}
	}
	return bw.Count(), nil
}

// render drives the Rewrite Engine's state machine (Parsed -> Sized ->
// Staged -> Committed/Aborted) against f's current Tag, returning the
// complete replacement file bytes.
func (f *File) render(options *saveOptions) ([]byte, error) {
	sr := binary.NewReader(f.r, f.size, f.Path)

	eng, err := rewrite.New(sr)
	if err != nil {
		return nil, wrapErr(f.Path, err)
	}
	eng.QuickTimeMeta = f.Type.MajorBrand == "qt  "

	newIlstPayload := ilst.EncodeIlst(f.Tag.store().Entries())
	plan := eng.Plan(newIlstPayload)

	if options.forceRelocate && plan.Strategy != rewrite.StrategyRelocate {
		plan = &rewrite.Plan{
			Strategy:     rewrite.StrategyRelocate,
			NewIlstBytes: plan.NewIlstBytes,
			Delta:        plan.Delta,
		}
	}

	out, err := eng.Render(plan)
	if err != nil {
		return nil, wrapErr(f.Path, err)
	}
	return out, nil
}

// validateWrittenFile re-opens path and compares every entry in the
// written Tag against f.Tag, field by field.
func (f *File) validateWrittenFile(path string) error {
	written, err := Open(path)
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	defer written.Close()

	for id, values := range f.Tag.All() {
		got := written.Tag.Values(id)
		if len(got) != len(values) {
			return fmt.Errorf("%s: value count mismatch: got %d, want %d", id, len(got), len(values))
		}
		for i := range values {
			if got[i].Type() != values[i].Type() {
				return fmt.Errorf("%s: type mismatch at index %d: got %v, want %v", id, i, got[i].Type(), values[i].Type())
			}
			switch {
			case values[i].IsString():
				if got[i].String() != values[i].String() {
					return fmt.Errorf("%s: string mismatch at index %d: got %q, want %q", id, i, got[i].String(), values[i].String())
				}
			case values[i].IsInt():
				if got[i].Int() != values[i].Int() {
					return fmt.Errorf("%s: int mismatch at index %d: got %d, want %d", id, i, got[i].Int(), values[i].Int())
				}
			default:
				if string(got[i].Bytes()) != string(values[i].Bytes()) {
					return fmt.Errorf("%s: byte payload mismatch at index %d", id, i)
				}
			}
		}
	}
	return nil
}
