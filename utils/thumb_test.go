package utils

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestCreateThumbShrinksLargeImage(t *testing.T) {
	var src bytes.Buffer
	if err := png.Encode(&src, image.NewRGBA(image.Rect(0, 0, 800, 600))); err != nil {
		t.Fatalf("failed encoding source image: %v", err)
	}

	var out bytes.Buffer
	result, err := CreateThumb(200, &src, &out)
	if err != nil {
		t.Fatalf("CreateThumb: %v", err)
	}
	if result.OldX != 800 || result.OldY != 600 {
		t.Fatalf("unexpected source dimensions: %+v", result)
	}
	if result.NewX > 200 || result.NewY > 200 {
		t.Fatalf("thumbnail exceeds bounds: %+v", result)
	}
	if int64(out.Len()) != result.ThumbSize || out.Len() == 0 {
		t.Fatalf("reported size %d does not match output %d", result.ThumbSize, out.Len())
	}

	decoded, _, err := image.Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("thumbnail not decodable: %v", err)
	}
	bounds := decoded.Bounds().Size()
	if bounds.X != int(result.NewX) || bounds.Y != int(result.NewY) {
		t.Fatalf("decoded size %v does not match reported %+v", bounds, result)
	}
}

func TestCreateThumbKeepsSmallImage(t *testing.T) {
	var src bytes.Buffer
	if err := png.Encode(&src, image.NewRGBA(image.Rect(0, 0, 64, 48))); err != nil {
		t.Fatalf("failed encoding source image: %v", err)
	}

	var out bytes.Buffer
	result, err := CreateThumb(200, &src, &out)
	if err != nil {
		t.Fatalf("CreateThumb: %v", err)
	}
	if result.NewX != 64 || result.NewY != 48 {
		t.Fatalf("small image was resized: %+v", result)
	}
}

func TestCreateThumbRejectsNonImage(t *testing.T) {
	var out bytes.Buffer
	if _, err := CreateThumb(200, bytes.NewReader([]byte("plain text")), &out); err == nil {
		t.Fatal("non-image input accepted")
	}
}
