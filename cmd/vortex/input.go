package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/vortex/internal/adapter/ocr"
	"github.com/couchcryptid/vortex/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// imageFlags name the two screenshot regions.
type imageFlags struct {
	thermo string
	comp   string
}

func (f *imageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.thermo, "thermo", "", "thermodynamics panel screenshot (PNG, JPEG or GIF)")
	cmd.Flags().StringVar(&f.comp, "comp", "", "composite parameters panel screenshot")
}

func (f *imageFlags) set() bool {
	return f.thermo != "" || f.comp != ""
}

// readCapture builds a capture from the two screenshots when image flags are
// given, otherwise from text files: one file is the whole text, two files are
// the thermodynamics and composites texts, and no file reads stdin.
func readCapture(cmd *cobra.Command, args []string, images imageFlags) (domain.Capture, error) {
	if images.set() {
		if len(args) > 0 {
			return domain.Capture{}, fmt.Errorf("text files and --thermo/--comp are mutually exclusive")
		}
		return recognizeImages(cmd.Context(), images)
	}

	c := domain.Capture{ID: uuid.NewString(), CapturedAt: time.Now().UTC()}
	switch len(args) {
	case 0:
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return domain.Capture{}, fmt.Errorf("no input: pass text files, pipe OCR text or use --thermo/--comp")
		}
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return domain.Capture{}, fmt.Errorf("read stdin: %w", err)
		}
		c.Thermodynamics = string(b)
	case 1:
		b, err := os.ReadFile(args[0])
		if err != nil {
			return domain.Capture{}, err
		}
		c.Thermodynamics = string(b)
	case 2:
		thermo, err := os.ReadFile(args[0])
		if err != nil {
			return domain.Capture{}, err
		}
		comp, err := os.ReadFile(args[1])
		if err != nil {
			return domain.Capture{}, err
		}
		c.Thermodynamics, c.Composites = string(thermo), string(comp)
	default:
		return domain.Capture{}, fmt.Errorf("expected at most two text files, got %d", len(args))
	}
	return c, nil
}

// captureText is the text the extractor sees. A single text source is used
// as is rather than with a trailing newline.
func captureText(c domain.Capture) string {
	if c.Composites == "" {
		return c.Thermodynamics
	}
	return c.Text()
}

func recognizeImages(ctx context.Context, images imageFlags) (domain.Capture, error) {
	if images.thermo == "" || images.comp == "" {
		return domain.Capture{}, fmt.Errorf("both --thermo and --comp are required")
	}
	thermo, err := os.ReadFile(images.thermo)
	if err != nil {
		return domain.Capture{}, err
	}
	comp, err := os.ReadFile(images.comp)
	if err != nil {
		return domain.Capture{}, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return domain.Capture{}, err
	}
	recognizer, closeOCR, err := ocr.New(ctx, cfg, slog.Default(), nil)
	if err != nil {
		return domain.Capture{}, err
	}
	defer closeOCR()

	id := strings.TrimSuffix(filepath.Base(images.thermo), filepath.Ext(images.thermo))
	return ocr.RecognizePair(ctx, recognizer, id, thermo, comp, time.Now().UTC())
}

// parseOverrides turns repeated field=value flags into reviewer overrides.
func parseOverrides(pairs []string) (map[domain.Field]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[domain.Field]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("override %q: want field=value", pair)
		}
		f, known := domain.ParseField(name)
		if !known || f == domain.FieldRaw {
			return nil, fmt.Errorf("override %q: unknown field %q", pair, name)
		}
		out[f] = strings.TrimSpace(value)
	}
	return out, nil
}
