// Package mp4tag reads, mutates, and writes iTunes-style metadata embedded
// in MPEG-4 / QuickTime container files (.m4a, .m4b, .m4p, .m4v, .mp4).
//
// mp4tag exposes a file's metadata as typed values, lets a caller make
// arbitrary edits, and persists those edits back into the same container
// without corrupting unrelated media data — in particular without moving
// mdat or breaking the stco/co64 chunk-offset tables that point into it.
//
// # Quick Start
//
// Reading metadata:
//
//	f, err := mp4tag.Open("song.m4a")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer f.Close()
//
//	fmt.Println(f.Tag.Strings(mp4tag.Artist))
//
// Editing and saving:
//
//	f.Tag.SetData(mp4tag.Artist, mp4tag.NewString("Bob"))
//	if err := f.Save(); err != nil {
//		log.Fatal(err)
//	}
//
// # Scope
//
// mp4tag's core is the atom tree traversal, the iTunes ilst metadata
// codec, and the in-place rewrite engine. It deliberately does not decode
// audio/video samples, validate the semantic correctness of non-metadata
// atoms, repair malformed containers beyond what's needed to safely locate
// and patch metadata, or transcode between container variants. Convenience
// accessors for individual well-known fields (artist, album, track number,
// and so on) are Identifier constants plus Tag.Strings/Ints/Images
// projections — there is no per-field struct, since the well-known
// identifier table already tells callers which FourCC to use.
//
// # Architecture
//
//	[File]            - Entry point: Open/OpenReader/Save/SaveAs
//	  └─ [Tag]         - Ordered multimap: Identifier -> []Data
//	       ├─ [Identifier] - FourCC or freeform (mean, name)
//	       └─ [Data]       - string, int, image, or opaque bytes
//
// Underneath, internal/atom parses the length-prefixed box hierarchy,
// internal/ilst decodes/encodes the ilst subtree into Identifier/Data
// pairs, internal/store holds them as the ordered multimap Tag wraps, and
// internal/rewrite computes the delta a Save introduces and picks the
// cheapest strategy — in-place overwrite, absorb-into-a-free-atom, or full
// moov relocation with chunk-offset patching — that can carry it.
//
// # Error Handling
//
// mp4tag surfaces every error to the caller; it never silently drops
// data. Unknown type codes, unrecognized identifiers, and unrecognized
// type-set payloads are preserved verbatim through a decode/encode cycle
// rather than rejected — round-trip fidelity is a hard requirement, not a
// best effort. See errors.go for the closed error-kind taxonomy, and
// File.Warnings for non-fatal conditions (an unrecognized file brand, for
// example) that don't prevent metadata access.
//
// # Concurrency
//
// A Tag is owned by one caller at a time and holds no background state.
// Independent Files may be processed in parallel by independent callers;
// OpenMany does exactly that, parsing multiple paths concurrently with
// golang.org/x/sync/errgroup.
package mp4tag
