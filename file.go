package mp4tag

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/mp4tag/internal/atom"
	"github.com/simonhull/mp4tag/internal/binary"
	"github.com/simonhull/mp4tag/internal/ilst"
	"github.com/simonhull/mp4tag/internal/store"
)

// File is an opened MP4-family container: its resolved FileType and the
// Tag decoded from moov/udta/meta/ilst, plus whatever handle Save needs to
// write changes back.
//
// File never reads mdat — Open only reads the ftyp payload, the atom
// headers on the path to ilst, and ilst itself. The stco/co64 tables are
// read later, by Save, when it has to patch them.
type File struct {
	Path     string
	Type     *FileType
	Tag      *Tag
	Warnings []Warning

	r    io.ReaderAt
	c    io.Closer
	size int64
}

// Open opens path, detects its FileType, and decodes its Tag.
//
// If moov/udta/meta/ilst is absent, File.Tag is an empty tag rather than
// an error; pass WithRequireTag to get NoTagError instead and distinguish
// a missing chain from a present-but-empty one.
//
// Example:
//
//	f, err := mp4tag.Open("song.m4a")
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//	fmt.Println(f.Tag.Strings(mp4tag.Artist))
func Open(path string, opts ...Option) (*File, error) {
	osFile, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Op: "open", Err: err}
	}

	stat, err := osFile.Stat()
	if err != nil {
		osFile.Close()
		return nil, &IOError{Path: path, Op: "stat", Err: err}
	}

	file, err := openReaderAt(osFile, stat.Size(), path, opts)
	if err != nil {
		osFile.Close()
		return nil, err
	}
	file.c = osFile
	return file, nil
}

// OpenReader decodes a Tag from a caller-managed random-access byte
// source. name is used only for diagnostics (error messages, Warning
// context) — it need not be a real filesystem path. The returned File's
// Close is a no-op; the caller owns r's lifetime.
func OpenReader(r io.ReaderAt, size int64, name string, opts ...Option) (*File, error) {
	return openReaderAt(r, size, name, opts)
}

func openReaderAt(r io.ReaderAt, size int64, name string, opts []Option) (*File, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	sr := binary.NewReader(r, size, name)

	ft, err := readFileType(sr)
	if err != nil {
		return nil, wrapErr(name, err)
	}

	var warnings []Warning
	if ft == nil || !ft.Recognized() {
		brand := ""
		if ft != nil {
			brand = ft.MajorBrand
		}
		if options.strictParsing {
			return nil, &UnknownFiletypeError{Path: name, Brand: brand}
		}
		warnings = append(warnings, Warning{
			Stage:   "filetype",
			Message: fmt.Sprintf("unrecognized or missing ftyp brand %q, continuing best-effort", brand),
		})
	}

	entries, err := decodeIlstChain(sr, options)
	if err != nil {
		return nil, wrapErr(name, err)
	}
	if entries == nil && options.requireTag {
		return nil, &NoTagError{Path: name}
	}

	// Non-printable identifier codes exist in the wild and are tolerated —
	// they decode and round-trip like any other — but they are flagged so
	// callers can tell a deliberate vendor code from corruption.
	for _, e := range entries {
		if e.Ident.Kind == ilst.KindFourCC && !atom.PrintableType(e.Ident.FourCC) {
			warnings = append(warnings, Warning{
				Stage:   "metadata",
				Message: fmt.Sprintf("identifier %x contains non-printable bytes, retained verbatim", e.Ident.FourCC),
			})
		}
	}

	if options.ignoreWarnings {
		warnings = nil
	}

	return &File{
		Path:     name,
		Type:     ft,
		Tag:      newTag(store.FromEntries(entries)),
		Warnings: warnings,
		r:        r,
		size:     size,
	}, nil
}

// decodeIlstChain walks moov/udta/meta/ilst and decodes it. A nil, nil
// return means the chain (or moov itself) is absent — "no tag" rather
// than "empty tag", which decodeIlstChain's caller turns into NoTagError
// only when the caller opted in via WithRequireTag.
func decodeIlstChain(sr *binary.Reader, options *openOptions) ([]*ilst.Entry, error) {
	moov, err := atom.Find(sr, 0, sr.Size(), "moov")
	if err != nil {
		return nil, err
	}
	if moov == nil {
		return nil, nil
	}

	ilstAtom, err := atom.FindPath(sr, moov.DataOffset(), moov.DataOffset()+int64(moov.DataSize()), "udta", "meta", "ilst")
	if err != nil {
		return nil, err
	}

	if ilstAtom == nil && options.altMetaRoot {
		// Open Question (a): some files in the wild carry meta directly
		// under the file root instead of moov/udta. Only probed when the
		// caller opts in — it's a relaxation of the canonical path, not
		// a correctness fix for well-formed files.
		ilstAtom, err = atom.FindPath(sr, 0, sr.Size(), "meta", "ilst")
		if err != nil {
			return nil, err
		}
	}

	if ilstAtom == nil {
		return nil, nil
	}

	start, end, err := atom.ContainerRange(sr, ilstAtom)
	if err != nil {
		return nil, err
	}
	return ilst.DecodeIlst(sr, start, end)
}

// Close releases the underlying file handle, if Open (rather than
// OpenReader) opened it.
func (f *File) Close() error {
	if f.c != nil {
		return f.c.Close()
	}
	return nil
}

// OpenMany opens multiple files concurrently, up to runtime.NumCPU() at a
// time, returning results in input order. If any file fails to open, every
// successfully opened File is closed before the error is returned.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	files, err := mp4tag.OpenMany(ctx, paths)
func OpenMany(ctx context.Context, paths []string, opts ...Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			file, err := Open(path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				file.Close()
			}
		}
		return nil, err
	}
	return results, nil
}
