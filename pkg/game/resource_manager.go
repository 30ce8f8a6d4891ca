package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Well-known resource IDs. The table maps IDs to on-disk paths so that
// callers never hard-code asset locations.
const (
	SoundSlice     = "SOUND_SLICE"
	SoundBomb      = "SOUND_BOMB"
	SoundMiss      = "SOUND_MISS"
	SoundCountdown = "SOUND_COUNTDOWN"
	SoundGameOver  = "SOUND_GAMEOVER"
	MusicGameplay  = "MUSIC_GAMEPLAY"
)

// defaultResourceMap 资源ID到文件路径的映射
var defaultResourceMap = map[string]string{
	SoundSlice:     "assets/audio/slice.ogg",
	SoundBomb:      "assets/audio/bomb.ogg",
	SoundMiss:      "assets/audio/miss.ogg",
	SoundCountdown: "assets/audio/countdown.ogg",
	SoundGameOver:  "assets/audio/gameover.ogg",
	MusicGameplay:  "assets/audio/gameplay.mp3",
}

// ResourceManager loads and caches images, audio players and font faces.
//
// All assets are optional: a missing file produces a single warning and a
// nil result, and the game falls back to procedural rendering / silence.
// The caches are not safe for concurrent use; the game loop is
// single-threaded so no synchronization is needed.
type ResourceManager struct {
	imageCache    map[string]*ebiten.Image
	audioCache    map[string]*audio.Player
	audioContext  *audio.Context
	fontFaceCache map[string]*text.GoTextFace
	fontSource    *text.GoTextFaceSource // built-in fallback font
	resourceMap   map[string]string      // resource ID -> file path
	warned        map[string]bool        // paths already warned about
}

// NewResourceManager creates a ResourceManager bound to the given audio
// context. The context should be created once at startup with a sample
// rate of 48000 Hz. It may be nil, in which case all audio loads fail
// softly and the game runs silent.
func NewResourceManager(audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		imageCache:    make(map[string]*ebiten.Image),
		audioCache:    make(map[string]*audio.Player),
		audioContext:  audioContext,
		fontFaceCache: make(map[string]*text.GoTextFace),
		resourceMap:   defaultResourceMap,
		warned:        make(map[string]bool),
	}
}

// LoadImage loads a PNG image from the given path and caches it.
// Returns the cached version on repeated calls.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg

	return ebitenImg, nil
}

// GetImage retrieves a previously loaded image from the cache, or loads
// it on first use. Missing or corrupt files yield nil and a one-time
// warning, never an error.
func (rm *ResourceManager) GetImage(path string) *ebiten.Image {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage
	}
	img, err := rm.LoadImage(path)
	if err != nil {
		rm.warnOnce(path, err)
		return nil
	}
	return img
}

// LoadAudio loads a looping audio stream (background music) from the
// given path. Supported formats: .mp3 and .ogg.
func (rm *ResourceManager) LoadAudio(path string) (*audio.Player, error) {
	if cachedPlayer, exists := rm.audioCache[path]; exists {
		return cachedPlayer, nil
	}
	if rm.audioContext == nil {
		return nil, fmt.Errorf("no audio context available")
	}

	audioData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
	}

	stream, err := decodeAudio(path, audioData)
	if err != nil {
		return nil, err
	}

	// Wrap the stream in an infinite loop for background music
	loopStream := audio.NewInfiniteLoop(stream, stream.Length())

	player, err := rm.audioContext.NewPlayer(loopStream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", path, err)
	}

	rm.audioCache[path] = player
	return player, nil
}

// LoadSoundEffect loads a one-shot sound effect from the given path.
// Unlike LoadAudio the stream is not looped.
func (rm *ResourceManager) LoadSoundEffect(path string) (*audio.Player, error) {
	if cachedPlayer, exists := rm.audioCache[path]; exists {
		return cachedPlayer, nil
	}
	if rm.audioContext == nil {
		return nil, fmt.Errorf("no audio context available")
	}

	audioData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound effect file %s: %w", path, err)
	}

	stream, err := decodeAudio(path, audioData)
	if err != nil {
		return nil, err
	}

	player, err := rm.audioContext.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", path, err)
	}

	rm.audioCache[path] = player
	return player, nil
}

// GetAudioPlayer retrieves a previously loaded audio player from the
// cache, or nil if the path has not been loaded.
func (rm *ResourceManager) GetAudioPlayer(path string) *audio.Player {
	return rm.audioCache[path]
}

// ResourcePath resolves a resource ID to its file path.
func (rm *ResourceManager) ResourcePath(resourceID string) (string, bool) {
	path, exists := rm.resourceMap[resourceID]
	return path, exists
}

// LoadFont loads a TrueType/OpenType font from the given path with the
// given size. The face is cached under a path:size key.
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	fontData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %s: %w", path, err)
	}

	goTextFace := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = goTextFace

	return goTextFace, nil
}

// DefaultFont returns a face built from the bundled Go Regular font.
// It never fails, so HUD text is always available even when no font
// assets ship with the game.
func (rm *ResourceManager) DefaultFont(size float64) *text.GoTextFace {
	cacheKey := fmt.Sprintf("builtin:%.1f", size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace
	}

	if rm.fontSource == nil {
		source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			// goregular.TTF 是编译进来的合法字体，解析不应失败
			log.Printf("[ResourceManager] Failed to parse built-in font: %v", err)
			return nil
		}
		rm.fontSource = source
	}

	goTextFace := &text.GoTextFace{
		Source:    rm.fontSource,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = goTextFace

	return goTextFace
}

// warnOnce logs a load failure once per path.
func (rm *ResourceManager) warnOnce(path string, err error) {
	if rm.warned[path] {
		return
	}
	rm.warned[path] = true
	log.Printf("[ResourceManager] Warning: %v", err)
}

// decodeAudio decodes in-memory audio data based on the file extension.
func decodeAudio(path string, data []byte) (audioStream, error) {
	reader := bytes.NewReader(data)
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".mp3":
		stream, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", path, err)
		}
		return stream, nil
	case ".ogg":
		stream, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", path, err)
		}
		return stream, nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg)", ext)
	}
}

// audioStream is the common surface of the mp3/vorbis decoded streams.
type audioStream interface {
	io.ReadSeeker
	Length() int64
}
