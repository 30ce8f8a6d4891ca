package vision

import (
	"log"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gonewx/fruitslash/pkg/config"
)

// pipelineFPS is the target detection rate. Hand tracking does not need
// to run at render speed.
const pipelineFPS = 30

// defaultInitTimeout bounds camera/detector startup. A webcam whose
// driver hangs on open must not park the player on the loading screen.
const defaultInitTimeout = 15 * time.Second

// Result is the most recent perception output. Landmarks are in camera
// pixel coordinates (640x480); an empty Landmarks slice with
// HasHand=false means no hand is currently visible. Err carries the
// last capture/detection failure, if any.
type Result struct {
	HasHand   bool
	Landmarks []mgl64.Vec2
	Timestamp time.Time
	Err       error
}

// Progress reports initialization state for the loading screen.
type Progress struct {
	Stage   string  // "camera", "detector", "ready", "degraded"
	Percent float64 // 0.0 ~ 1.0
	Message string
}

// Pipeline runs camera capture and hand detection on a background
// goroutine and publishes the latest result through a single slot:
// each new result overwrites the previous one, so the game loop always
// reads the freshest data and never blocks.
type Pipeline struct {
	camera   Camera
	detector Detector

	// InitTimeout bounds initialization; set before Start.
	InitTimeout time.Duration

	mu       sync.Mutex
	latest   Result
	progress Progress
	ready    bool
	degraded bool

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	errLogged bool
}

// NewPipeline creates a Pipeline. Either camera or detector may be nil,
// in which case the pipeline starts in degraded mode and the game runs
// without hand input.
func NewPipeline(camera Camera, detector Detector) *Pipeline {
	return &Pipeline{
		camera:      camera,
		detector:    detector,
		InitTimeout: defaultInitTimeout,
		progress:    Progress{Stage: "camera", Message: "Opening camera..."},
		stopCh:      make(chan struct{}),
	}
}

// Start begins asynchronous initialization and, on success, the
// detection loop. It returns immediately; poll Progress and Ready for
// state. Initialization that exceeds InitTimeout flips the pipeline
// into degraded mode.
func (p *Pipeline) Start() {
	watchdog := time.AfterFunc(p.InitTimeout, func() {
		p.mu.Lock()
		timedOut := !p.ready && !p.degraded
		p.mu.Unlock()
		if timedOut {
			p.setDegraded("Camera initialization timed out")
		}
	})

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ok := p.initialize()
		watchdog.Stop()
		if !ok {
			return
		}
		p.run()
	}()
}

// initialize opens the camera and probes the detector. Returns false
// when the pipeline ends up degraded and the loop should not run.
func (p *Pipeline) initialize() bool {
	if p.camera == nil || p.detector == nil {
		p.setDegraded("No camera configured")
		return false
	}

	p.setProgress("camera", 0.1, "Opening camera...")
	if err := p.camera.Open(); err != nil {
		log.Printf("[Pipeline] Failed to open camera: %v", err)
		p.setDegraded("Camera unavailable")
		return false
	}

	p.setProgress("detector", 0.5, "Starting hand tracker...")

	// Warm up the detector with one real frame. The first MediaPipe
	// call pays the subprocess startup cost; doing it here keeps the
	// hitch off the gameplay path.
	frame, err := p.camera.ReadFrame()
	if err != nil {
		log.Printf("[Pipeline] Failed to read warm-up frame: %v", err)
		p.camera.Close()
		p.setDegraded("Camera unavailable")
		return false
	}
	_, err = p.detector.Detect(frame)
	frame.Close()
	if err != nil {
		log.Printf("[Pipeline] Hand tracker failed to start: %v", err)
		p.camera.Close()
		p.setDegraded("Hand tracker unavailable")
		return false
	}

	p.mu.Lock()
	if p.degraded {
		// 看门狗已超时降级，迟到的初始化结果作废
		p.mu.Unlock()
		p.camera.Close()
		return false
	}
	p.ready = true
	p.progress = Progress{Stage: "ready", Percent: 1.0, Message: "Ready"}
	p.mu.Unlock()
	log.Printf("[Pipeline] Perception pipeline ready")
	return true
}

// run is the detection loop. It publishes one Result per processed
// frame until Stop is called.
func (p *Pipeline) run() {
	ticker := time.NewTicker(time.Second / pipelineFPS)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.step()
		}
	}
}

// step processes a single frame. Errors clear the published result so
// stale landmarks never drive the blade.
func (p *Pipeline) step() {
	frame, err := p.camera.ReadFrame()
	if err != nil {
		p.publishError("read frame", err)
		return
	}

	hands, err := p.detector.Detect(frame)
	frame.Close()
	if err != nil {
		p.publishError("detect hands", err)
		return
	}

	result := Result{Timestamp: time.Now()}
	if len(hands) > 0 {
		result.HasHand = true
		result.Landmarks = toPixels(&hands[0])
	}

	p.mu.Lock()
	p.latest = result
	p.errLogged = false
	p.mu.Unlock()
}

// Latest returns the most recent perception result.
func (p *Pipeline) Latest() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

// Progress returns the current initialization progress.
func (p *Pipeline) Progress() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// Ready reports whether the pipeline is initialized and running.
func (p *Pipeline) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// Degraded reports whether the pipeline gave up on camera input.
// The game remains playable without hand tracking.
func (p *Pipeline) Degraded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.degraded
}

// Stop shuts down the detection loop and releases camera and detector
// resources. Safe to call multiple times.
func (p *Pipeline) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	p.wg.Wait()

	if p.camera != nil {
		p.camera.Close()
	}
	if p.detector != nil {
		p.detector.Close()
	}
}

func (p *Pipeline) setProgress(stage string, percent float64, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = Progress{Stage: stage, Percent: percent, Message: message}
}

func (p *Pipeline) setDegraded(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.degraded = true
	p.progress = Progress{Stage: "degraded", Percent: 1.0, Message: message}
	log.Printf("[Pipeline] Running in degraded mode: %s", message)
}

// publishError clears the latest result and logs the failure once.
// Repeated identical failures (e.g. a disconnected webcam) stay quiet
// until a frame succeeds again.
func (p *Pipeline) publishError(op string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latest = Result{Timestamp: time.Now(), Err: err}
	if !p.errLogged {
		p.errLogged = true
		log.Printf("[Pipeline] Error: %s: %v", op, err)
	}
}

// toPixels converts normalized landmarks to camera pixel coordinates.
func toPixels(hand *HandLandmarks) []mgl64.Vec2 {
	points := make([]mgl64.Vec2, NumLandmarks)
	for i, pt := range hand.Points {
		points[i] = mgl64.Vec2{
			pt.X * float64(config.CameraFrameWidth),
			pt.Y * float64(config.CameraFrameHeight),
		}
	}
	return points
}
