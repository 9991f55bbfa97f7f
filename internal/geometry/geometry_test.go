package geometry

import (
	"errors"
	"testing"

	"github.com/1broseidon/tinygadget/internal/platform"
	"github.com/1broseidon/tinygadget/internal/platform/platformtest"
	"github.com/1broseidon/tinygadget/internal/prefs"
)

func TestRestoreEmptyStoreUsesDefault(t *testing.T) {
	win := platformtest.NewWindow()
	r, err := Restore(win, prefs.NewMemory(), platformtest.SingleDisplay(1920, 1080))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != Default {
		t.Fatalf("expected default %+v, got %+v", Default, r)
	}
	if win.Bounds() != (platform.Bounds{X: 0, Y: 0, Width: 320, Height: 200}) {
		t.Fatalf("default not applied, got %+v", win.Bounds())
	}
}

func TestSaveThenRestoreOnFreshStore(t *testing.T) {
	dir := t.TempDir()
	screens := platformtest.SingleDisplay(1920, 1080)

	src := platformtest.NewWindow()
	_ = src.SetBounds(platform.Bounds{X: 100, Y: 50, Width: 400, Height: 300})
	store, _ := prefs.OpenFile(dir, "clock")
	if _, err := Save(src, store); err != nil {
		t.Fatalf("save: %v", err)
	}

	fresh, _ := prefs.OpenFile(dir, "clock")
	dst := platformtest.NewWindow()
	r, err := Restore(dst, fresh, screens)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	want := Record{X: 100, Y: 50, Width: 400, Height: 300}
	if r != want || dst.Bounds() != want.Bounds() {
		t.Fatalf("expected %+v, got record %+v bounds %+v", want, r, dst.Bounds())
	}
}

func TestSaveTruncatesToWholeUnits(t *testing.T) {
	win := platformtest.NewWindow()
	_ = win.SetBounds(platform.Bounds{X: 10.9, Y: -3.7, Width: 220.00000000000003, Height: 199.99})
	store := prefs.NewMemory()

	r, err := Save(win, store)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if r != (Record{X: 10, Y: -3, Width: 220, Height: 199}) {
		t.Fatalf("unexpected record %+v", r)
	}
	if v, _ := store.GetInt(KeyWidth, 0); v != 220 {
		t.Fatalf("stored width %d", v)
	}
}

func TestRestoreOnRemovedDisplayFallsBack(t *testing.T) {
	store := prefs.NewMemory()
	_ = Store(store, Record{X: 2500, Y: 100, Width: 400, Height: 300})

	both := &platformtest.Screens{List: []platform.Display{
		{ID: 0, Bounds: platform.Rect{Width: 1920, Height: 1080}},
		{ID: 1, Bounds: platform.Rect{X: 1920, Width: 1920, Height: 1080}},
	}}
	if r, _ := Resolve(store, both); r.X != 2500 {
		t.Fatalf("expected saved record while second display exists, got %+v", r)
	}

	win := platformtest.NewWindow()
	r, err := Restore(win, store, platformtest.SingleDisplay(1920, 1080))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if r != Default {
		t.Fatalf("expected fallback to default, got %+v", r)
	}
}

func TestRestoreDefaultsMissingFieldsIndividually(t *testing.T) {
	store := prefs.NewMemory()
	_ = store.PutInt(KeyX, 300)
	_ = store.PutInt(KeyHeight, 500)

	r, err := Resolve(store, platformtest.SingleDisplay(1920, 1080))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r != (Record{X: 300, Y: 0, Width: 320, Height: 500}) {
		t.Fatalf("unexpected record %+v", r)
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	store := prefs.NewMemory()
	_ = Store(store, Record{X: 40, Y: 60, Width: 500, Height: 250})
	screens := platformtest.SingleDisplay(1280, 720)
	win := platformtest.NewWindow()

	first, err := Restore(win, store, screens)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	b1 := win.Bounds()
	second, err := Restore(win, store, screens)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if first != second || b1 != win.Bounds() {
		t.Fatalf("restore not idempotent: %+v vs %+v", first, second)
	}
}

func TestRestoreZeroSizedRecordFallsBack(t *testing.T) {
	store := prefs.NewMemory()
	_ = Store(store, Record{X: 10, Y: 10, Width: 0, Height: 0})

	r, _ := Resolve(store, platformtest.SingleDisplay(1920, 1080))
	if r != Default {
		t.Fatalf("expected default for empty rectangle, got %+v", r)
	}
}

type failingStore struct{}

func (failingStore) PutInt(string, int) error { return nil }
func (failingStore) GetInt(string, int) (int, error) { return 0, errors.New("disk on fire") }

func TestRestorePropagatesStoreErrors(t *testing.T) {
	win := platformtest.NewWindow()
	_, err := Restore(win, failingStore{}, platformtest.SingleDisplay(1920, 1080))
	if err == nil {
		t.Fatalf("expected error")
	}
	if win.BoundsCalls != 0 {
		t.Fatalf("geometry applied despite read failure")
	}
}

func TestRestorePropagatesDisplayErrors(t *testing.T) {
	win := platformtest.NewWindow()
	screens := &platformtest.Screens{Err: errors.New("no randr")}
	if _, err := Restore(win, prefs.NewMemory(), screens); err == nil {
		t.Fatalf("expected error")
	}
}
