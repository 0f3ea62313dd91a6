package content

import "sync"

// ViewedImage is the image shown by an open viewer.
type ViewedImage struct {
	Src string
	Alt string
}

// Viewer is the state of one full-size image overlay. At most one image is
// shown at a time; opening another replaces it. Each page or screen owns its
// own Viewer. The zero value is a closed viewer.
type Viewer struct {
	mu      sync.Mutex
	current *ViewedImage
}

// Open shows the image at src.
func (v *Viewer) Open(src, alt string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = &ViewedImage{Src: src, Alt: alt}
}

// OpenFigure shows the full-size version of a figure.
func (v *Viewer) OpenFigure(f Figure) {
	v.Open(f.URL, f.Alt)
}

// Close hides the overlay. Closing a closed viewer is a no-op.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = nil
}

// Current returns the shown image, if any.
func (v *Viewer) Current() (ViewedImage, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return ViewedImage{}, false
	}
	return *v.current, true
}

// IsOpen reports whether an image is shown.
func (v *Viewer) IsOpen() bool {
	_, ok := v.Current()
	return ok
}
