package view

import (
	"encoding/base64"
	"net/http"
	"strings"
	"sync"

	"camctl/pkg/models"
)

// Image holds the most recent frame source. Each Display replaces the
// previous one; nothing is queued.
type Image struct {
	mu  sync.RWMutex
	src string
}

// Display swaps in a new image source, usually a data:image/jpeg URI.
func (i *Image) Display(src string) {
	i.mu.Lock()
	i.src = src
	i.mu.Unlock()
}

func (i *Image) Source() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.src
}

// ServeHTTP writes the current frame as JPEG. Payloads are only decoded
// here, so a corrupt frame shows up as a failed fetch.
func (i *Image) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	src := i.Source()
	if src == "" {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}

	payload, ok := strings.CutPrefix(src, models.FrameURIPrefix)
	if !ok {
		http.Error(w, "unsupported image source", http.StatusUnprocessableEntity)
		return
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		http.Error(w, "broken frame: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}
