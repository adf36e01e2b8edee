package loaders

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/vantablack/tracer/pkg/core"
	"github.com/vantablack/tracer/pkg/texture"
)

// rgbeClampMax bounds decoded environment-map radiance to avoid a single
// blown-out texel dominating every sample that hits it.
const rgbeClampMax = 10.0

// LoadRGBE decodes a Radiance (.hdr/.pic) RGBE image into a texture.Image,
// handling both the flat and the new-style RLE scanline encodings.
func LoadRGBE(path string) (*texture.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	width, height, err := readRGBEHeader(r)
	if err != nil {
		return nil, err
	}

	pixels := make([]core.Color, width*height)
	for y := 0; y < height; y++ {
		row, err := readRGBEScanline(r, width)
		if err != nil {
			return nil, err
		}
		copy(pixels[y*width:(y+1)*width], row)
	}

	return texture.NewImageBuffer(width, height, pixels), nil
}

func readRGBEHeader(r *bufio.Reader) (int, int, error) {
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return 0, 0, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
	}

	line, err := r.ReadString('\n')
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return 0, 0, fmt.Errorf("loaders: malformed RGBE resolution line %q", line)
	}
	height, err1 := strconv.Atoi(fields[1])
	width, err2 := strconv.Atoi(fields[3])
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("loaders: malformed RGBE resolution line %q", line)
	}
	return width, height, nil
}

func readRGBEScanline(r *bufio.Reader, width int) ([]core.Color, error) {
	buf := make([]byte, 4*width)

	header := make([]byte, 4)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	isNewRLE := width >= 8 && width < 0x8000 &&
		header[0] == 2 && header[1] == 2 && int(header[2])<<8|int(header[3]) == width

	if isNewRLE {
		for channel := 0; channel < 4; channel++ {
			x := 0
			for x < width {
				count, err := r.ReadByte()
				if err != nil {
					return nil, err
				}
				if count > 128 {
					n := int(count) - 128
					val, err := r.ReadByte()
					if err != nil {
						return nil, err
					}
					for i := 0; i < n; i++ {
						buf[(x+i)*4+channel] = val
					}
					x += n
				} else {
					n := int(count)
					for i := 0; i < n; i++ {
						val, err := r.ReadByte()
						if err != nil {
							return nil, err
						}
						buf[(x+i)*4+channel] = val
					}
					x += n
				}
			}
		}
	} else {
		copy(buf[0:4], header)
		if _, err := io.ReadFull(r, buf[4:]); err != nil {
			return nil, err
		}
	}

	row := make([]core.Color, width)
	for x := 0; x < width; x++ {
		row[x] = rgbeToColor(buf[x*4], buf[x*4+1], buf[x*4+2], buf[x*4+3])
	}
	return row, nil
}

func rgbeToColor(r, g, b, e byte) core.Color {
	if e == 0 {
		return core.Color{}
	}
	f := math.Ldexp(1.0, int(e)-128-8)
	c := core.Color{X: float64(r) * f, Y: float64(g) * f, Z: float64(b) * f}
	return c.Clamp(0, rgbeClampMax)
}
