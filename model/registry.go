package model

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/Pravallika0730/medical-image-analyzer/model/postprocess"
)

// Factory builds a model for a label set. A nil NMS config selects the
// architecture's defaults.
type Factory func(classes *OutputClassSet, nms *postprocess.NMSConfig) (Model, error)

var (
	registryMu sync.RWMutex
	registry   = map[Name]Factory{}
)

// Register makes an architecture available to NewByName. Architecture
// packages call it from init; registering the same name twice panics.
func Register(name Name, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic("model: duplicate registration of " + string(name))
	}
	registry[name] = factory
}

// NewByName builds a registered architecture.
//
// Arguments:
//   - name: The architecture identifier.
//   - classes: The ordered label set the weights were trained on.
//   - nms: Suppression parameters; nil uses the architecture defaults.
//
// Returns:
//   - Model: The configured model.
//   - error: An error if the name is unknown or the factory rejects the
//     configuration.
func NewByName(name Name, classes *OutputClassSet, nms *postprocess.NMSConfig) (Model, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown model architecture %q", name)
	}
	return factory(classes, nms)
}
