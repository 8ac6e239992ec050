package io

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

var end = binary.LittleEndian

// DepthHeader is written at the start of every depth map file. It is
// followed by Width * Height float32 depths in row-major order, top row
// first. Pixels which see nothing have a depth of +Inf.
type DepthHeader struct {
	Type   TypeInfo
	Camera CameraInfo
	Image  ImageInfo
}

type TypeInfo struct {
	Endianness int64
	HeaderSize int64
}

type CameraInfo struct {
	Eye, Target, Up Vector
	Fov, Near, Far  float64
}

type ImageInfo struct {
	Width, Height int64
	Hits          int64
}

type Vector [3]float64

func NewCameraInfo(con *CameraConfig) CameraInfo {
	return CameraInfo{
		Eye:    Vector{con.EyeX, con.EyeY, con.EyeZ},
		Target: Vector{con.TargetX, con.TargetY, con.TargetZ},
		Up:     Vector{con.UpX, con.UpY, con.UpZ},
		Fov:    con.Fov, Near: con.Near, Far: con.Far,
	}
}

// WriteDepth writes a depth map and its header to wr. The size information
// in hd.Type and hd.Image is filled in from depths.
func WriteDepth(wr io.Writer, hd *DepthHeader, depths []float32) error {
	if int64(len(depths)) != hd.Image.Width*hd.Image.Height {
		return fmt.Errorf(
			"Depth map has %d pixels, but the header is %d x %d.",
			len(depths), hd.Image.Width, hd.Image.Height,
		)
	}

	var endFlag int64
	if end == binary.LittleEndian {
		endFlag = -1
	} else {
		endFlag = 0
	}

	hd.Type.Endianness = endFlag
	hd.Type.HeaderSize = int64(binary.Size(hd))
	hd.Image.Hits = 0
	for _, d := range depths {
		if !math.IsInf(float64(d), 0) {
			hd.Image.Hits++
		}
	}

	if err := binary.Write(wr, end, hd); err != nil {
		return err
	}
	return binary.Write(wr, end, depths)
}

// MaxDepthPixels is the largest depth map ReadDepth will allocate.
const MaxDepthPixels = 1 << 28

// ReadDepth reads a depth map written by WriteDepth. Headers describing more
// than MaxDepthPixels pixels are rejected before anything is allocated.
func ReadDepth(rd io.Reader) (*DepthHeader, []float32, error) {
	return readDepth(rd, MaxDepthPixels)
}

func readDepth(rd io.Reader, maxPixels int64) (*DepthHeader, []float32, error) {
	hd := &DepthHeader{}
	if err := binary.Read(rd, end, hd); err != nil {
		return nil, nil, err
	}
	if hd.Type.Endianness != -1 {
		return nil, nil, fmt.Errorf(
			"Depth map has endianness flag %d, only little endian (-1) "+
				"files can be read.", hd.Type.Endianness,
		)
	} else if hd.Type.HeaderSize != int64(binary.Size(hd)) {
		return nil, nil, fmt.Errorf(
			"Depth map header is %d bytes, expected %d.",
			hd.Type.HeaderSize, binary.Size(hd),
		)
	} else if hd.Image.Width < 0 || hd.Image.Height < 0 {
		return nil, nil, fmt.Errorf(
			"Depth map has negative size %d x %d.",
			hd.Image.Width, hd.Image.Height,
		)
	}

	w, h := hd.Image.Width, hd.Image.Height
	if w != 0 && (w*h)/w != h {
		return nil, nil, fmt.Errorf(
			"Depth map size %d x %d overflows.", w, h,
		)
	} else if w*h > maxPixels {
		return nil, nil, fmt.Errorf(
			"Depth map size %d x %d is larger than the %d pixels available.",
			w, h, maxPixels,
		)
	}

	depths := make([]float32, w*h)
	if err := binary.Read(rd, end, depths); err != nil {
		return nil, nil, err
	}
	return hd, depths, nil
}

func WriteDepthFile(fname string, hd *DepthHeader, depths []float32) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := WriteDepth(f, hd, depths); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ReadDepthFile(fname string) (*DepthHeader, []float32, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	payload := (info.Size() - int64(binary.Size(&DepthHeader{}))) / 4
	return readDepth(f, min(payload, MaxDepthPixels))
}

