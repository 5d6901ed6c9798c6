package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/esimov/carve"
	"github.com/esimov/carve/utils"
	pigo "github.com/esimov/pigo/core"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/bmp"
	"golang.org/x/term"
)

const helpBanner = `
┌─┐┌─┐┬─┐┬  ┬┌─┐
│  ├─┤├┬┘└┐┌┘├┤
└─┘┴ ┴┴└─ └┘ └─┘

Content aware image resize library.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source image, file path, URL or stdin pipe")
	destination = flag.String("out", pipeName, "Destination image")
	confFile    = flag.String("conf", "", "TOML file with default options")
	newWidth    = flag.Int("width", 0, "New width")
	newHeight   = flag.Int("height", 0, "New height")
	energyMode  = flag.String("energy", "backward", "Energy model, one of backward or forward")
	orderMode   = flag.String("order", "width-first", "Axis resolution order, one of width-first or height-first")
	stepRatio   = flag.Float64("step", 0.5, "Maximum expansion fraction per insertion round, (0,1]")
	keepPath    = flag.String("kmask", "", "Mask image of the region protected from carving")
	dropPath    = flag.String("dmask", "", "Mask image of the region to remove")
	emapPath    = flag.String("emap", "", "Grayscale image used verbatim as the energy map")
	static      = flag.Bool("static", false, "Compute the energy once, never refresh it while carving")
	threshold   = flag.Float64("threshold", 0, "Prune whole rows/columns with mean energy below this value")
	visualize   = flag.Bool("vis", false, "Save an image highlighting the carved seams")
	seamColor   = flag.String("color", "#ff0000", "Seam highlight color as hex")
	faceDetect  = flag.Bool("face", false, "Protect detected faces from carving")
	cascade     = flag.String("cc", "", "Path to the pigo cascade binary, required with -face")
)

func main() {
	log.SetReportTimestamp(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()
	applyConfig()

	proc := &carve.Processor{
		NewWidth:        *newWidth,
		NewHeight:       *newHeight,
		EnergyMode:      carve.EnergyMode(*energyMode),
		Order:           carve.Order(*orderMode),
		StepRatio:       *stepRatio,
		StaticEnergy:    *static,
		EnergyThreshold: *threshold,
		Visualize:       *visualize,
	}

	img, err := readImage(*source)
	if err != nil {
		log.Fatal("failed to load the source image", "err", err)
	}
	src := carve.FromImage(img)

	if *keepPath != "" {
		proc.KeepMask, err = readMask(*keepPath, src.Width, src.Height)
		if err != nil {
			log.Fatal("failed to load the keep mask", "err", err)
		}
	}
	if *dropPath != "" {
		proc.DropMask, err = readMask(*dropPath, src.Width, src.Height)
		if err != nil {
			log.Fatal("failed to load the drop mask", "err", err)
		}
	}
	if *emapPath != "" {
		emap, err := readImageFile(*emapPath, src.Width, src.Height)
		if err != nil {
			log.Fatal("failed to load the energy map", "err", err)
		}
		proc.EnergyMap = carve.GrayFromImage(emap)
	}
	if *faceDetect {
		faces, err := detectFaces(img, *cascade)
		if err != nil {
			log.Fatal("face detection failed", "err", err)
		}
		proc.KeepMask = mergeFaceMask(proc.KeepMask, faces, src.Width, src.Height)
		log.Info("protecting detected faces", "count", len(faces))
	}

	spinner := utils.NewSpinner(utils.DecorateText("⚡ CARVE", utils.StatusMessage)+
		utils.DecorateText(" ⇢ resizing image (be patient, it may take a while)...", utils.DefaultMessage),
		time.Millisecond*80)
	if *destination != pipeName {
		spinner.Start()
	}

	start := time.Now()
	res, overlay, err := proc.ResizeAdvanced(src)
	spinner.Stop()
	if err != nil {
		log.Fatal("error rescaling the image", "err", err)
	}

	if err := writeImage(*destination, res.ToNRGBA()); err != nil {
		log.Fatal("failed to save the resized image", "err", err)
	}
	if overlay != nil && *destination != pipeName {
		out := seamOutput(*destination)
		if err := writeImage(out, renderOverlay(res, overlay, *seamColor)); err != nil {
			log.Fatal("failed to save the seam overlay", "err", err)
		}
		log.Info("seam overlay saved", "path", out)
	}

	if *destination != pipeName {
		log.Info("image resized",
			"width", res.Width, "height", res.Height,
			"took", utils.FormatTime(time.Since(start)))
	}
}

// applyConfig fills every flag the user left unset with the value from the
// TOML config file, when one is provided.
func applyConfig() {
	if *confFile == "" {
		return
	}
	cfg, err := loadConfig(*confFile)
	if err != nil {
		log.Fatal("failed to load the config file", "err", err)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["width"] && cfg.Width != 0 {
		*newWidth = cfg.Width
	}
	if !set["height"] && cfg.Height != 0 {
		*newHeight = cfg.Height
	}
	if !set["energy"] && cfg.Energy != "" {
		*energyMode = cfg.Energy
	}
	if !set["order"] && cfg.Order != "" {
		*orderMode = cfg.Order
	}
	if !set["step"] && cfg.StepRatio != 0 {
		*stepRatio = cfg.StepRatio
	}
	if !set["threshold"] && cfg.Threshold != 0 {
		*threshold = cfg.Threshold
	}
	if !set["static"] && cfg.Static {
		*static = true
	}
	if !set["vis"] && cfg.Visualize {
		*visualize = true
	}
	if !set["color"] && cfg.SeamColor != "" {
		*seamColor = cfg.SeamColor
	}
	if !set["cc"] && cfg.Cascade != "" {
		*cascade = cfg.Cascade
	}
}

// readImage loads the source image from a file, an URL or the stdin pipe.
func readImage(src string) (image.Image, error) {
	if src == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, fmt.Errorf("`-` should be used with a pipe for stdin")
		}
		img, _, err := image.Decode(os.Stdin)
		return img, err
	}
	if utils.IsValidUrl(src) {
		f, err := utils.DownloadImage(src)
		if f != nil {
			defer os.Remove(f.Name())
		}
		if err != nil {
			return nil, err
		}
		return imaging.Open(f.Name())
	}
	return imaging.Open(src)
}

// readImageFile loads an auxiliary image and rescales it to the source
// bounds when the shapes differ.
func readImageFile(path string, width, height int) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
		img = imaging.Resize(img, width, height, imaging.Lanczos)
	}
	return img, nil
}

func readMask(path string, width, height int) (*carve.Mask, error) {
	img, err := readImageFile(path, width, height)
	if err != nil {
		return nil, err
	}
	return carve.MaskFromImage(img), nil
}

// writeImage encodes the image into the destination file, the format picked
// by the file extension; the stdout pipe receives JPEG.
func writeImage(dst string, img *image.NRGBA) error {
	if dst == pipeName {
		return jpeg.Encode(os.Stdout, img, &jpeg.Options{Quality: 100})
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(dst)) {
	case "", ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 100})
	case ".png":
		return png.Encode(f, img)
	case ".bmp":
		return bmp.Encode(f, img)
	default:
		return fmt.Errorf("unsupported image format")
	}
}

// seamOutput derives the overlay destination from the output path.
func seamOutput(dst string) string {
	ext := filepath.Ext(dst)
	return strings.TrimSuffix(dst, ext) + "_seams" + ext
}

// renderOverlay paints the carved seam positions over the resized image in
// the configured highlight color.
func renderOverlay(res, overlay *carve.Grid, hex string) *image.NRGBA {
	col, err := colorful.Hex(hex)
	if err != nil {
		log.Warn("invalid seam color, falling back to red", "color", hex)
		col = colorful.Color{R: 1}
	}
	r, g, b := col.RGB255()

	img := res.ToNRGBA()
	for y := 0; y < overlay.Height; y++ {
		for x := 0; x < overlay.Width; x++ {
			if overlay.At(x, y, 0) == 0 && overlay.At(x, y, 1) == 0 && overlay.At(x, y, 2) == 0 {
				continue
			}
			di := img.PixOffset(x, y)
			img.Pix[di+0] = r
			img.Pix[di+1] = g
			img.Pix[di+2] = b
		}
	}
	return img
}

// detectFaces runs the pigo classifier over the source image and returns
// the clustered detections.
func detectFaces(img image.Image, cascadePath string) ([]pigo.Detection, error) {
	if cascadePath == "" {
		return nil, fmt.Errorf("a cascade binary is required, see -cc")
	}
	cascadeFile, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("error reading the cascade file: %w", err)
	}

	classifier, err := pigo.NewPigo().Unpack(cascadeFile)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %w", err)
	}

	src := pigo.ImgToNRGBA(img)
	pixels := pigo.RgbToGrayscale(src)
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()

	cParams := pigo.CascadeParams{
		MinSize:     20,
		MaxSize:     utils.Max(dx, dy),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,

		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   dy,
			Cols:   dx,
			Dim:    dx,
		},
	}

	faces := classifier.RunCascade(cParams, 0.0)
	return classifier.ClusterDetections(faces, 0.2), nil
}

// mergeFaceMask marks a square zone around every confident detection in the
// keep mask, creating one when no mask was supplied.
func mergeFaceMask(mask *carve.Mask, faces []pigo.Detection, width, height int) *carve.Mask {
	if mask == nil {
		mask = carve.NewMask(width, height)
	}
	for _, face := range faces {
		if face.Q <= 5.0 {
			continue
		}
		x0 := utils.Max(face.Col-face.Scale/2, 0)
		y0 := utils.Max(face.Row-face.Scale/2, 0)
		x1 := utils.Min(face.Col+face.Scale/2, width)
		y1 := utils.Min(face.Row+face.Scale/2, height)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				mask.Set(x, y, true)
			}
		}
	}
	return mask
}
