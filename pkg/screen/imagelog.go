package screen

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	haystackDumpName = "last_finderror_haystack.png"
	needleDumpName   = "last_finderror_needle.png"
)

// dumpFindFailure writes the last captured haystack and the target's
// reference image into a per-session subdirectory of the dump dir for
// postmortem analysis. Dumping is best effort debugging output, never
// correctness state: all failures are logged and swallowed.
//
// The path of the dump directory is returned, empty when nothing could
// be written.
func dumpFindFailure(dir string, haystack image.Image, target Target, log *zap.Logger) string {
	session := filepath.Join(dir, uuid.NewString())
	if err := os.MkdirAll(session, 0755); err != nil {
		log.Warn("Failed to create dump directory", zap.Error(err))
		return ""
	}

	if haystack != nil {
		if err := saveImage(filepath.Join(session, haystackDumpName), haystack); err != nil {
			log.Warn("Failed to dump haystack", zap.Error(err))
		}
	}

	if imageTarget, ok := target.(*ImageTarget); ok {
		if err := imageTarget.Save(filepath.Join(session, needleDumpName)); err != nil {
			log.Warn("Failed to dump needle", zap.Error(err))
		}
	} else {
		log.Debug("Target carries no reference image to dump",
			zap.String("target", target.Name()))
	}

	log.Info("Dumped find failure images", zap.String("path", session))
	return session
}

func saveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dump file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
