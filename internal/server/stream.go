package server

import (
	"fmt"
	"image"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/posejump/internal/pose"
)

// EncodeFunc turns a frame into JPEG bytes.
type EncodeFunc func(image.Image) ([]byte, error)

// EncodeJPEG encodes img with OpenCV.
func EncodeJPEG(img image.Image) ([]byte, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	// buf's memory belongs to OpenCV
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// StreamHandler serves the annotated webcam frames as MJPEG. A frame is
// written only when a new snapshot has been published.
type StreamHandler struct {
	poses    *pose.Handoff
	interval time.Duration
	encode   EncodeFunc
}

// NewStreamHandler creates a StreamHandler that polls poses every interval.
func NewStreamHandler(poses *pose.Handoff, interval time.Duration) *StreamHandler {
	return &StreamHandler{poses: poses, interval: interval, encode: EncodeJPEG}
}

// SetEncoder replaces the JPEG encoder.
func (h *StreamHandler) SetEncoder(encode EncodeFunc) {
	h.encode = encode
}

// ServeHTTP streams frames until the client goes away.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		snap, ok := h.poses.TryTake()
		if !ok || snap.Seq == last || snap.Frame == nil {
			continue
		}
		last = snap.Seq

		buf, err := h.encode(snap.Frame)
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(buf))
		if _, err := w.Write(buf); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
