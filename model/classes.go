package model

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// OutputClass represents one detection label.
type OutputClass struct {
	// The integer index returned by the model.
	Index int
	// The human-readable label.
	Name string
}

// OutputClassSet ties a model family to its ordered list of labels.
type OutputClassSet struct {
	// Class set identifier.
	Family Family
	// Classes that are supported and mappable, ordered by index.
	Classes []OutputClass
}

// Len returns the number of labels in the set.
func (s *OutputClassSet) Len() int {
	return len(s.Classes)
}

// Names returns the ordered label names.
func (s *OutputClassSet) Names() []string {
	names := make([]string, len(s.Classes))
	for i, c := range s.Classes {
		names[i] = c.Name
	}
	return names
}

// Name returns the label for idx. The second return value reports
// whether idx is a valid index into the set.
func (s *OutputClassSet) Name(idx int) (string, bool) {
	if idx < 0 || idx >= len(s.Classes) {
		return "", false
	}
	return s.Classes[idx].Name, true
}

// LoadLabels reads a labels file with one class name per line and builds
// a class set in file order. Blank lines and surrounding whitespace are
// ignored.
//
// Arguments:
//   - path: Path to the labels file.
//
// Returns:
//   - *OutputClassSet: The loaded label set with FamilyCustom.
//   - error: An error if the file is missing, unreadable, or empty.
func LoadLabels(path string) (*OutputClassSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open labels file")
	}
	defer f.Close()

	set := &OutputClassSet{Family: FamilyCustom}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		set.Classes = append(set.Classes, OutputClass{Index: len(set.Classes), Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read labels file")
	}
	if len(set.Classes) == 0 {
		return nil, errors.Errorf("labels file %s has no entries", path)
	}
	return set, nil
}

func classSet(family Family, names ...string) OutputClassSet {
	set := OutputClassSet{Family: family, Classes: make([]OutputClass, len(names))}
	for i, name := range names {
		set.Classes[i] = OutputClass{Index: i, Name: name}
	}
	return set
}

// TumorClasses is the label set of the bundled brain-MRI detection
// weights.
var TumorClasses = classSet(FamilyTumor,
	"glioma", "meningioma", "no_tumor", "pituitary",
)

// COCOClasses is the full 80-class COCO set used by general-purpose
// YOLO weights (no background class).
var COCOClasses = classSet(FamilyCOCO,
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat", "dog", "horse",
	"sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag", "tie",
	"suitcase", "frisbee", "skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove",
	"skateboard", "surfboard", "tennis racket", "bottle", "wine glass", "cup", "fork", "knife", "spoon",
	"bowl", "banana", "apple", "sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut",
	"cake", "chair", "couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator", "book",
	"clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
)
