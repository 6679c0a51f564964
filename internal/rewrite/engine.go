// Package rewrite implements the write path: computing the delta between
// old and new serialized ilst length, picking the cheapest strategy that
// can absorb it, and patching every stco/co64 chunk-offset table so media
// references stay valid.
package rewrite

import (
	"fmt"

	"github.com/simonhull/mp4tag/internal/atom"
	safebinary "github.com/simonhull/mp4tag/internal/binary"
)

// Strategy is the write path chosen for a given ilst size delta.
type Strategy int

const (
	// StrategyInPlace overwrites ilst's payload in place; only valid when
	// the new serialized ilst is byte-identical in length to the old one.
	StrategyInPlace Strategy = iota
	// StrategyAbsorbFree grows or shrinks a sibling free/skip atom to
	// absorb the size delta without touching any container size above it.
	StrategyAbsorbFree
	// StrategyRelocate reserializes the whole moov atom and patches every
	// chunk-offset table for the resulting file-wide byte shift.
	StrategyRelocate
)

func (s Strategy) String() string {
	switch s {
	case StrategyInPlace:
		return "in-place"
	case StrategyAbsorbFree:
		return "absorb-free"
	case StrategyRelocate:
		return "relocate"
	default:
		return "unknown"
	}
}

// Status tracks the state machine of a single write: Parsed, once a
// Location and offset tables are known; Sized, once a strategy is chosen;
// Staged, while Render computes the replacement bytes; Committed once
// Render has returned them, or Aborted if it failed, as terminal states.
type Status int

const (
	StatusParsed Status = iota
	StatusSized
	StatusStaged
	StatusCommitted
	StatusAborted
)

// minFreeAtomSize is the smallest a free/skip atom may shrink to: an 8-byte
// header with no payload.
const minFreeAtomSize = 8

// Plan is the outcome of sizing a write: which strategy applies and the
// inputs Render needs to carry it out.
type Plan struct {
	Strategy     Strategy
	NewIlstBytes []byte
	Delta        int64
}

// Engine drives one write against a parsed file: locating the udta/meta/
// ilst chain, discovering offset tables, sizing the write, and rendering
// the replacement bytes.
type Engine struct {
	sr     *safebinary.Reader
	size   int64
	loc    *Location
	tables []OffsetTable
	status Status

	// QuickTimeMeta selects the flavor of a meta atom synthesized from
	// scratch: true for pure QuickTime files (no version/flags prefix),
	// false for ISO BMFF variants. Set by the caller from the ftyp brand
	// before Render; a meta that already exists keeps its own flavor.
	QuickTimeMeta bool
}

// New locates moov, the udta/meta/ilst chain beneath it, and every
// stco/co64 offset table under moov's tracks.
func New(sr *safebinary.Reader) (*Engine, error) {
	moov, err := atom.Find(sr, 0, sr.Size(), "moov")
	if err != nil {
		return nil, err
	}
	if moov == nil {
		return nil, fmt.Errorf("%s: no moov atom", sr.Path())
	}

	loc, err := Locate(sr, moov)
	if err != nil {
		return nil, err
	}

	tables, err := DiscoverOffsetTables(sr, moov)
	if err != nil {
		return nil, err
	}

	return &Engine{sr: sr, size: sr.Size(), loc: loc, tables: tables, status: StatusParsed}, nil
}

// Location exposes the resolved udta/meta/ilst chain, primarily so callers
// can tell an absent tag (Location.Ilst == nil) from an empty one.
func (e *Engine) Location() *Location {
	return e.loc
}

// Plan sizes the write for a newly encoded ilst payload (the concatenated
// child-atom bytes EncodeIlst returns), selecting the cheapest strategy
// that can carry it.
func (e *Engine) Plan(newIlstPayload []byte) *Plan {
	newIlstBytes := atom.Serialize("ilst", newIlstPayload)

	if e.loc.Ilst == nil {
		e.status = StatusSized
		return &Plan{Strategy: StrategyRelocate, NewIlstBytes: newIlstBytes}
	}

	delta := int64(len(newIlstBytes)) - int64(e.loc.Ilst.Size)
	e.status = StatusSized

	if delta == 0 {
		return &Plan{Strategy: StrategyInPlace, NewIlstBytes: newIlstBytes, Delta: delta}
	}

	if e.loc.Free != nil && e.freeAbsorbs(delta) {
		return &Plan{Strategy: StrategyAbsorbFree, NewIlstBytes: newIlstBytes, Delta: delta}
	}

	return &Plan{Strategy: StrategyRelocate, NewIlstBytes: newIlstBytes, Delta: delta}
}

// freeAbsorbs reports whether the sibling free atom has enough slack to
// grow or shrink by delta while staying at or above minFreeAtomSize, and
// whether it sits immediately adjacent to ilst (no gap between the two).
func (e *Engine) freeAbsorbs(delta int64) bool {
	adjacent := e.loc.Free.Offset == e.loc.Ilst.End() || e.loc.Ilst.Offset == e.loc.Free.End()
	if !adjacent {
		return false
	}
	newFreeSize := int64(e.loc.Free.Size) - delta
	return newFreeSize >= minFreeAtomSize
}

// Render produces the complete replacement file bytes for the given plan.
func (e *Engine) Render(plan *Plan) ([]byte, error) {
	e.status = StatusStaged
	var out []byte
	var err error

	switch plan.Strategy {
	case StrategyInPlace:
		out, err = e.renderInPlace(plan)
	case StrategyAbsorbFree:
		out, err = e.renderAbsorbFree(plan)
	case StrategyRelocate:
		out, err = e.renderRelocate(plan)
	default:
		err = fmt.Errorf("unknown strategy %v", plan.Strategy)
	}

	if err != nil {
		e.status = StatusAborted
		return nil, err
	}
	e.status = StatusCommitted
	return out, nil
}

func (e *Engine) readRange(start, end int64) ([]byte, error) {
	buf := make([]byte, end-start)
	if err := e.sr.ReadAt(buf, start, "file range"); err != nil {
		return nil, err
	}
	return buf, nil
}

func (e *Engine) renderInPlace(plan *Plan) ([]byte, error) {
	before, err := e.readRange(0, e.loc.Ilst.Offset)
	if err != nil {
		return nil, err
	}
	after, err := e.readRange(e.loc.Ilst.End(), e.size)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(before)+len(plan.NewIlstBytes)+len(after))
	out = append(out, before...)
	out = append(out, plan.NewIlstBytes...)
	out = append(out, after...)
	return out, nil
}

func (e *Engine) renderAbsorbFree(plan *Plan) ([]byte, error) {
	ilst, free := e.loc.Ilst, e.loc.Free

	start := min64(ilst.Offset, free.Offset)
	end := max64(ilst.End(), free.End())

	newFreeTotalSize := int64(free.Size) - plan.Delta
	newFreePayload := make([]byte, newFreeTotalSize-8)
	newFreeBytes := atom.Serialize("free", newFreePayload)

	var middle []byte
	if ilst.Offset < free.Offset {
		middle = append(append(middle, plan.NewIlstBytes...), newFreeBytes...)
	} else {
		middle = append(append(middle, newFreeBytes...), plan.NewIlstBytes...)
	}

	before, err := e.readRange(0, start)
	if err != nil {
		return nil, err
	}
	after, err := e.readRange(end, e.size)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(before)+len(middle)+len(after))
	out = append(out, before...)
	out = append(out, middle...)
	out = append(out, after...)
	return out, nil
}

func (e *Engine) renderRelocate(plan *Plan) ([]byte, error) {
	newMetaBytes, err := RebuildMeta(e.sr, e.loc, plan.NewIlstBytes, e.QuickTimeMeta)
	if err != nil {
		return nil, err
	}
	newUdtaBytes, err := RebuildUdta(e.sr, e.loc, newMetaBytes)
	if err != nil {
		return nil, err
	}

	oldUdtaSize := int64(0)
	if e.loc.Udta != nil {
		oldUdtaSize = int64(e.loc.Udta.Size)
	}
	deltaFile := int64(len(newUdtaBytes)) - oldUdtaSize

	moovOffset := e.loc.Moov.Offset
	shift := func(old int64) int64 {
		if old > moovOffset {
			return old + deltaFile
		}
		return old
	}

	newMoovBytes, err := RebuildMoov(e.sr, e.loc, newUdtaBytes, e.tables, shift)
	if err != nil {
		return nil, err
	}

	before, err := e.readRange(0, e.loc.Moov.Offset)
	if err != nil {
		return nil, err
	}
	after, err := e.readRange(e.loc.Moov.End(), e.size)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(before)+len(newMoovBytes)+len(after))
	out = append(out, before...)
	out = append(out, newMoovBytes...)
	out = append(out, after...)
	return out, nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
