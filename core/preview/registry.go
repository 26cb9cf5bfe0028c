// Package preview keeps the files uploaded to a form until it is submitted,
// and serves them back as previews.
package preview

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("preview not found")

// File is an uploaded file.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Handle identifies a live preview.
type Handle string

// Registry holds the previews of one browser, one per slot (eg. "course-add/image").
// Replacing or releasing a slot revokes its previous handle exactly once.
type Registry struct {
	mu          sync.Mutex
	files       map[Handle]File
	slots       map[string]Handle
	revocations map[Handle]int
}

func NewRegistry() *Registry {
	return &Registry{
		files:       make(map[Handle]File),
		slots:       make(map[string]Handle),
		revocations: make(map[Handle]int),
	}
}

// Replace stores `f` in `slot` and returns its handle.
func (r *Registry) Replace(slot string, f File) Handle {
	h := Handle(uuid.NewString())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked(slot)
	r.files[h] = f
	r.slots[slot] = h
	return h
}

// Release revokes the handle of `slot`, if any.
func (r *Registry) Release(slot string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked(slot)
}

// ReleasePrefix revokes the handles of every slot starting with `prefix`.
func (r *Registry) ReleasePrefix(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for slot := range r.slots {
		if strings.HasPrefix(slot, prefix) {
			r.releaseLocked(slot)
		}
	}
}

// ReleaseAll revokes every live handle.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for slot := range r.slots {
		r.releaseLocked(slot)
	}
}

func (r *Registry) releaseLocked(slot string) {
	h, ok := r.slots[slot]
	if !ok {
		return
	}
	delete(r.slots, slot)
	delete(r.files, h)
	r.revocations[h]++
}

// Get returns the file currently held by `slot`.
func (r *Registry) Get(slot string) (File, Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.slots[slot]
	if !ok {
		return File{}, "", false
	}
	return r.files[h], h, true
}

// Open returns the file behind a live handle.
func (r *Registry) Open(h Handle) (File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[h]
	if !ok {
		return File{}, ErrNotFound
	}
	return f, nil
}

// Revocations returns how many times `h` was revoked.
func (r *Registry) Revocations(h Handle) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revocations[h]
}
