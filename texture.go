package sketch

import (
	"image"
	"sync"
)

// TextureID identifies a texture in the process-wide texture store.
// The zero ID is never allocated.
type TextureID uint64

// textureStore holds every live texture as a straight-alpha RGBA8 image
// with rows top-down.
type textureStore struct {
	mu   sync.RWMutex
	next TextureID
	tex  map[TextureID]*image.NRGBA
}

var textures = &textureStore{tex: make(map[TextureID]*image.NRGBA)}

func (s *textureStore) upload(img *image.NRGBA) TextureID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.tex[s.next] = img
	return s.next
}

func (s *textureStore) get(id TextureID) (*image.NRGBA, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.tex[id]
	return img, ok
}

func (s *textureStore) replace(id TextureID, img *image.NRGBA) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tex[id]; !ok {
		return false
	}
	s.tex[id] = img
	return true
}

func (s *textureStore) release(id TextureID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tex[id]; !ok {
		return false
	}
	delete(s.tex, id)
	return true
}

// TextureCount returns the number of live textures.
func TextureCount() int {
	textures.mu.RLock()
	defer textures.mu.RUnlock()
	return len(textures.tex)
}

// releaseAll releases the live textures among ids and returns how many
// were released.
func (s *textureStore) releaseAll(ids []TextureID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, id := range ids {
		if _, ok := s.tex[id]; ok {
			delete(s.tex, id)
			n++
		}
	}
	return n
}
