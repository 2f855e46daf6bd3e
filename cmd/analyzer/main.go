// Command analyzer runs the medical image analysis service: an HTTP
// endpoint that accepts an uploaded image, runs it through a pretrained
// detection model, and returns the detections with confidence scores
// and an annotated copy of the image.
//
// With -image or -dir it instead analyzes files once and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Pravallika0730/medical-image-analyzer/analysis"
	"github.com/Pravallika0730/medical-image-analyzer/config"
	"github.com/Pravallika0730/medical-image-analyzer/inference"
	"github.com/Pravallika0730/medical-image-analyzer/model"
	_ "github.com/Pravallika0730/medical-image-analyzer/model/yolov8" // registers the architecture
	"github.com/Pravallika0730/medical-image-analyzer/util"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		imagePath string
		dirPath   string
	)
	flag.StringVar(&imagePath, "image", "", "Analyze a single image file and exit")
	flag.StringVar(&dirPath, "dir", "", "Analyze every image in a directory and exit")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	classes, err := resolveClasses(cfg)
	if err != nil {
		log.Fatalf("failed to load label set: %v", err)
	}

	detectionModel, err := model.NewByName(model.NameYOLOv8, classes, nil)
	if err != nil {
		log.Fatalf("failed to configure model: %v", err)
	}

	handle, err := inference.Instance(inference.Config{
		ModelPath:      cfg.ModelPath,
		LibraryPath:    cfg.ONNXLibraryPath,
		Model:          detectionModel,
		PoolSize:       cfg.PoolSize,
		AcquireTimeout: cfg.AcquireTimeout,
	})
	if err != nil {
		log.Fatalf("failed to load detection model: %v", err)
	}
	defer handle.Close()

	pipeline := analysis.NewPipeline(handle)

	if imagePath != "" || dirPath != "" {
		if err := runBatch(pipeline, cfg, imagePath, dirPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	srv := newServer(pipeline, handle, cfg)
	log.Printf("starting analyzer on %s", srv.Addr)
	log.Fatal(srv.ListenAndServe())
}

// resolveClasses picks the label set: a labels file when configured,
// otherwise the bundled tumor set matching the default weights.
func resolveClasses(cfg *config.Config) (*model.OutputClassSet, error) {
	if cfg.LabelsPath != "" {
		return model.LoadLabels(cfg.LabelsPath)
	}
	return &model.TumorClasses, nil
}

// runBatch analyzes local files and writes annotated copies next to the
// originals.
func runBatch(pipeline *analysis.Pipeline, cfg *config.Config, imagePath, dirPath string) error {
	var files []util.ImageFile

	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		files = append(files, util.ImageFile{Path: imagePath, Data: data})
	}
	if dirPath != "" {
		dirFiles, err := util.LoadDirectoryImageFiles(dirPath)
		if err != nil {
			return fmt.Errorf("read image directory: %w", err)
		}
		files = append(files, dirFiles...)
	}

	for _, file := range files {
		result, err := pipeline.Analyze(context.Background(), file.Data,
			analysis.WithThreshold(cfg.ConfidenceThreshold),
			analysis.WithAnnotation(true),
		)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", file.Path, err)
		}

		fmt.Printf("%s: %d detections\n", file.Path, result.TotalCount)
		for i, d := range result.Detections {
			fmt.Printf("  %d. %s (confidence %.2f) at [%d,%d)-[%d,%d)\n",
				i+1, d.ClassName, d.Confidence,
				d.BoundingBox.XMin, d.BoundingBox.YMin, d.BoundingBox.XMax, d.BoundingBox.YMax)
		}

		if len(result.AnnotatedImage) > 0 {
			out := annotatedPath(file.Path)
			if err := os.WriteFile(out, result.AnnotatedImage, 0o644); err != nil {
				return fmt.Errorf("write annotated image: %w", err)
			}
			fmt.Printf("  annotated image saved to %s\n", out)
		}
	}
	return nil
}

func annotatedPath(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + ".analyzed.jpg"
}
