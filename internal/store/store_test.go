package store

import (
	"testing"

	"github.com/simonhull/mp4tag/internal/ilst"
)

func fourCC(code string) ilst.Ident {
	return ilst.Ident{Kind: ilst.KindFourCC, FourCC: code}
}

func TestStore_SetDataCreatesAndReplaces(t *testing.T) {
	s := New()
	id := fourCC("\xa9nam")

	s.SetData(id, ilst.NewUTF8String("first"))
	if got := s.StringsOf(id); len(got) != 1 || got[0] != "first" {
		t.Fatalf("got %v, want [first]", got)
	}

	s.SetData(id, ilst.NewUTF8String("second"))
	if got := s.StringsOf(id); len(got) != 1 || got[0] != "second" {
		t.Fatalf("got %v, want [second]", got)
	}
}

func TestStore_AddDataAppends(t *testing.T) {
	s := New()
	id := fourCC("covr")

	jpeg := ilst.NewImage(ilst.TypeJPEG, []byte{1})
	png := ilst.NewImage(ilst.TypePNG, []byte{2})
	s.AddData(id, jpeg)
	s.AddData(id, png)

	images := s.ImagesOf(id)
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	if images[0].Code != ilst.TypeJPEG || images[1].Code != ilst.TypePNG {
		t.Errorf("expected JPEG then PNG in insertion order, got %+v", images)
	}
}

func TestStore_RemoveDataOf(t *testing.T) {
	s := New()
	id := fourCC("\xa9day")
	s.SetData(id, ilst.NewUTF8String("2003"))
	s.RemoveDataOf(id)

	if vals := s.ValuesOf(id); vals != nil {
		t.Errorf("expected nil after removal, got %v", vals)
	}
}

func TestStore_Retain(t *testing.T) {
	s := New()
	id := fourCC("\xa9gen")
	s.AddData(id, ilst.NewUTF8String("Rock"))
	s.AddData(id, ilst.NewUTF8String(""))

	s.Retain(func(_ ilst.Ident, d *ilst.Data) bool {
		return d.Str != ""
	})

	got := s.StringsOf(id)
	if len(got) != 1 || got[0] != "Rock" {
		t.Fatalf("got %v, want [Rock]", got)
	}
}

func TestStore_RetainDeletesEmptyEntry(t *testing.T) {
	s := New()
	id := fourCC("\xa9lyr")
	s.SetData(id, ilst.NewUTF8String("drop me"))

	s.Retain(func(_ ilst.Ident, d *ilst.Data) bool { return false })

	if len(s.Entries()) != 0 {
		t.Fatalf("expected entry to be removed entirely, got %d entries", len(s.Entries()))
	}
}

func TestStore_OrderingPreserved(t *testing.T) {
	s := New()
	s.SetData(fourCC("\xa9nam"), ilst.NewUTF8String("Title"))
	s.SetData(fourCC("\xa9ART"), ilst.NewUTF8String("Artist"))
	s.SetData(fourCC("\xa9alb"), ilst.NewUTF8String("Album"))

	var order []string
	for id := range s.All() {
		order = append(order, id.FourCC)
	}
	want := []string{"\xa9nam", "\xa9ART", "\xa9alb"}
	for i, w := range want {
		if order[i] != w {
			t.Fatalf("order[%d] = %q, want %q", i, order[i], w)
		}
	}
}

func TestStore_FreeformIdentifiersAreDistinctByCase(t *testing.T) {
	s := New()
	a := ilst.Ident{Kind: ilst.KindFreeform, Mean: "com.apple.iTunes", Name: "ISRC"}
	b := ilst.Ident{Kind: ilst.KindFreeform, Mean: "com.apple.itunes", Name: "ISRC"}

	s.SetData(a, ilst.NewUTF8String("one"))
	s.SetData(b, ilst.NewUTF8String("two"))

	if got := s.StringsOf(a); len(got) != 1 || got[0] != "one" {
		t.Errorf("a: got %v", got)
	}
	if got := s.StringsOf(b); len(got) != 1 || got[0] != "two" {
		t.Errorf("b: got %v", got)
	}
}

func TestStore_Clone(t *testing.T) {
	s := New()
	id := fourCC("\xa9nam")
	s.SetData(id, ilst.NewUTF8String("Original"))

	clone := s.Clone()
	clone.SetData(id, ilst.NewUTF8String("Changed"))

	if got := s.StringsOf(id); got[0] != "Original" {
		t.Errorf("original store mutated by clone: got %v", got)
	}
	if got := clone.StringsOf(id); got[0] != "Changed" {
		t.Errorf("clone: got %v", got)
	}
}
