package vision

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera is a test implementation of the Camera interface.
type MockCamera struct {
	mu      sync.Mutex
	open    bool
	openErr error
	readErr error
	frames  int
}

// NewMockCamera creates a new MockCamera instance.
func NewMockCamera() *MockCamera {
	return &MockCamera{}
}

// SetOpenError makes Open fail with the given error.
func (m *MockCamera) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// SetReadError makes ReadFrame fail with the given error.
func (m *MockCamera) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FrameCount returns how many frames have been read.
func (m *MockCamera) FrameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

func (m *MockCamera) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return m.openErr
	}
	m.open = true
	return nil
}

func (m *MockCamera) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	return nil
}

func (m *MockCamera) ReadFrame() (*gocv.Mat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return nil, ErrCameraNotOpen
	}
	if m.readErr != nil {
		return nil, m.readErr
	}
	m.frames++
	mat := gocv.NewMat()
	return &mat, nil
}

func (m *MockCamera) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PointingHandLandmarks returns a preset HandLandmarks with the index
// fingertip at the given normalized position. Useful for driving the
// blade in tests.
func PointingHandLandmarks(x, y float64) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}
	for i := 0; i < NumLandmarks; i++ {
		lm.Points[i] = Point3D{X: 0.5, Y: 0.8}
	}
	lm.Points[IndexTip] = Point3D{X: x, Y: y}
	lm.Points[MiddleTip] = Point3D{X: x + 0.02, Y: y + 0.02}
	return lm
}
