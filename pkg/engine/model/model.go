// Package model wraps an external text-completion capability behind the same
// story contract the rule-based engine serves. It owns the model handle's
// whole lifecycle; nothing else ever mutates it.
package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"

	"storymaker/pkg/story"
	"storymaker/pkg/utils"
)

// State of the model handle. Transitions only ever run under the lifecycle
// mutex: Unloaded -> Loading -> Loaded -> Unloaded.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateLoaded   State = "loaded"
)

// Config holds the model path and default sampling parameters.
type Config struct {
	Path          string  `json:"path"`
	BaseURL       string  `json:"-"`
	ContextSize   int     `json:"contextSize"`
	Temperature   float64 `json:"temperature"`
	MaxTokens     int     `json:"maxTokens"`
	TopP          float64 `json:"topP"`
	TopK          int     `json:"topK"`
	RepeatPenalty float64 `json:"repeatPenalty"`
}

func (c Config) withDefaults() Config {
	if c.ContextSize == 0 {
		c.ContextSize = 2048
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 512
	}
	if c.TopP == 0 {
		c.TopP = 0.9
	}
	if c.TopK == 0 {
		c.TopK = 40
	}
	if c.RepeatPenalty == 0 {
		c.RepeatPenalty = 1.1
	}
	return c
}

// merged resolves per-call options over the configured defaults.
func (c Config) merged(o Options) Options {
	if o.Temperature == 0 {
		o.Temperature = c.Temperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = c.MaxTokens
	}
	if o.TopP == 0 {
		o.TopP = c.TopP
	}
	if o.TopK == 0 {
		o.TopK = c.TopK
	}
	if o.RepeatPenalty == 0 {
		o.RepeatPenalty = c.RepeatPenalty
	}
	return o
}

// Handle is a read-only snapshot of the model lifecycle for status reporting.
type Handle struct {
	Loaded    bool   `json:"loaded"`
	State     State  `json:"state"`
	Path      string `json:"path,omitempty"`
	Config    Config `json:"configuration"`
	LastError string `json:"lastError,omitempty"`
}

// CompleterFactory acquires the inference capability for a config. Tests
// inject fakes here.
type CompleterFactory func(Config) (Completer, error)

// Engine is the model-backed story generator.
type Engine struct {
	catalog      *story.Catalog
	newCompleter CompleterFactory

	mu        sync.RWMutex
	state     State
	cfg       Config
	completer Completer
	lastErr   string
}

// New builds an engine that will talk to a local llama.cpp-style server.
// Call Initialize before generating.
func New(catalog *story.Catalog, cfg Config) *Engine {
	return NewWithCompleter(catalog, cfg, func(c Config) (Completer, error) {
		return NewLlamaCompleter(c.BaseURL)
	})
}

// NewWithCompleter builds an engine with a custom capability factory.
func NewWithCompleter(catalog *story.Catalog, cfg Config, factory CompleterFactory) *Engine {
	return &Engine{
		catalog:      catalog,
		newCompleter: factory,
		state:        StateUnloaded,
		cfg:          cfg.withDefaults(),
	}
}

// Initialize validates the configured model file and acquires the completion
// capability. Safe to call again after failure or Unload.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initializeLocked()
}

func (e *Engine) initializeLocked() error {
	e.state = StateLoading
	e.completer = nil

	if err := e.loadLocked(); err != nil {
		e.state = StateUnloaded
		e.lastErr = err.Error()
		return err
	}

	e.state = StateLoaded
	e.lastErr = ""
	log.Info("model loaded", "path", e.cfg.Path, "contextSize", e.cfg.ContextSize)
	return nil
}

func (e *Engine) loadLocked() error {
	if e.cfg.Path == "" {
		return story.ErrModelNotConfigured
	}
	info, err := os.Stat(e.cfg.Path)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", story.ErrModelFileNotFound, e.cfg.Path)
	}

	completer, err := e.newCompleter(e.cfg)
	if err != nil {
		if errors.Is(err, story.ErrCapabilityUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", story.ErrCapabilityUnavailable, err)
	}
	e.completer = completer
	return nil
}

// Loaded reports whether the handle is ready for inference.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state == StateLoaded
}

// Handle snapshots the lifecycle state for the status endpoint.
func (e *Engine) Handle() Handle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Handle{
		Loaded:    e.state == StateLoaded,
		State:     e.state,
		Path:      e.cfg.Path,
		Config:    e.cfg,
		LastError: e.lastErr,
	}
}

// Unload releases the handle. Idempotent.
func (e *Engine) Unload() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateUnloaded && e.completer == nil {
		return
	}
	e.completer = nil
	e.state = StateUnloaded
	log.Info("model unloaded", "path", e.cfg.Path)
}

// Reload unloads and re-initializes with the non-zero fields of cfg merged
// over the current configuration.
func (e *Engine) Reload(cfg Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.completer = nil
	e.state = StateUnloaded

	if cfg.Path != "" {
		e.cfg.Path = cfg.Path
	}
	if cfg.BaseURL != "" {
		e.cfg.BaseURL = cfg.BaseURL
	}
	if cfg.ContextSize != 0 {
		e.cfg.ContextSize = cfg.ContextSize
	}
	if cfg.Temperature != 0 {
		e.cfg.Temperature = cfg.Temperature
	}
	if cfg.MaxTokens != 0 {
		e.cfg.MaxTokens = cfg.MaxTokens
	}

	return e.initializeLocked()
}

// Generate runs one completion. Request options override configured defaults
// field by field. Prompts that cannot fit the context window alongside the
// completion budget are rejected up front.
func (e *Engine) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	e.mu.RLock()
	loaded := e.state == StateLoaded
	completer := e.completer
	cfg := e.cfg
	e.mu.RUnlock()

	if !loaded || completer == nil {
		return "", story.ErrModelNotLoaded
	}

	merged := cfg.merged(opts)
	if tokens, err := utils.CountTokens(prompt); err == nil && tokens+merged.MaxTokens > cfg.ContextSize {
		return "", fmt.Errorf("prompt (%d tokens) plus %d completion tokens exceeds the %d token context window", tokens, merged.MaxTokens, cfg.ContextSize)
	}

	out, err := completer.Complete(ctx, prompt, merged)
	if err != nil {
		return "", fmt.Errorf("model generation: %w", err)
	}
	return out, nil
}

// GenerateStream produces tokens on the returned channel. The producer
// checks ctx between tokens, so abandoning consumption with a cancelled
// context guarantees no further sends; the channel is closed either way.
func (e *Engine) GenerateStream(ctx context.Context, prompt string, opts Options) (<-chan string, error) {
	e.mu.RLock()
	loaded := e.state == StateLoaded
	completer := e.completer
	cfg := e.cfg
	e.mu.RUnlock()

	if !loaded || completer == nil {
		return nil, story.ErrModelNotLoaded
	}

	merged := cfg.merged(opts)
	ch := make(chan string)
	go func() {
		defer close(ch)
		err := completer.Stream(ctx, prompt, merged, func(token string) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ch <- token:
				return nil
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("streaming generation stopped", "error", err)
		}
	}()
	return ch, nil
}

// GenerateStory builds the per-genre prompt, runs the completion, and wraps
// the cleaned output in the shared story shape.
func (e *Engine) GenerateStory(ctx context.Context, req story.Request) (*story.Story, error) {
	req.Normalize()
	if err := req.Validate(e.catalog); err != nil {
		return nil, err
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	// A higher temperature than the chat default keeps stories varied.
	raw, err := e.Generate(ctx, prompt, Options{Temperature: 0.8})
	if err != nil {
		return nil, err
	}

	content := CleanOutput(raw)
	if content == "" {
		return nil, errors.New("model returned no usable story text")
	}

	words := story.WordCount(content)
	return &story.Story{
		ID:         ksuid.New().String(),
		Title:      e.catalog.Title(req.Genre, req.Language, req.Topic),
		Content:    content,
		Language:   req.Language,
		Genre:      req.Genre,
		Difficulty: req.Difficulty,
		Engine:     story.EngineModel,
		Metadata: story.Metadata{
			WordCount:   words,
			ReadingTime: story.ReadingTime(words),
			GeneratedBy: story.GeneratedBy,
			Timestamp:   time.Now().UTC(),
			ModelPath:   e.Handle().Path,
		},
	}, nil
}

// MemoryEstimate is advisory sizing information for the configured model.
type MemoryEstimate struct {
	ModelFileSizeMB  int    `json:"modelFileSizeMB,omitempty"`
	ContextMemoryMB  int    `json:"contextMemoryMB,omitempty"`
	EstimatedTotalMB int    `json:"estimatedTotalMB,omitempty"`
	Recommendation   string `json:"recommendation,omitempty"`
	Err              string `json:"error,omitempty"`
}

// EstimateMemoryUsage sizes the model file plus context memory plus a fixed
// overhead. Absence of the file is reported in the value, never as an error.
func (e *Engine) EstimateMemoryUsage() MemoryEstimate {
	e.mu.RLock()
	path := e.cfg.Path
	contextSize := e.cfg.ContextSize
	e.mu.RUnlock()

	info, err := os.Stat(path)
	if path == "" || err != nil {
		return MemoryEstimate{Err: "model file not found"}
	}

	fileMB := int(info.Size() / (1 << 20))
	contextMB := contextSize * 4 / (1 << 20)
	totalMB := fileMB + contextMB + 100

	recommendation := "Should run on most systems"
	if totalMB >= 4096 {
		recommendation = "May require a high-end system"
	}
	return MemoryEstimate{
		ModelFileSizeMB:  fileMB,
		ContextMemoryMB:  contextMB,
		EstimatedTotalMB: totalMB,
		Recommendation:   recommendation,
	}
}

// FileValidation is the result of a model file sanity check.
type FileValidation struct {
	Valid  bool   `json:"valid"`
	SizeMB int    `json:"sizeMB,omitempty"`
	Path   string `json:"path,omitempty"`
	Err    string `json:"error,omitempty"`
}

// Files smaller than this cannot plausibly be a quantized model.
const minModelFileMB = 10

// ValidateModelFile checks a path for existence, regular-file-ness, the
// .gguf extension, and a minimum plausible size. It never parses the binary.
func ValidateModelFile(path string) FileValidation {
	info, err := os.Stat(path)
	if err != nil {
		return FileValidation{Err: "file does not exist"}
	}
	if !info.Mode().IsRegular() {
		return FileValidation{Err: "path is not a regular file"}
	}
	if strings.ToLower(filepath.Ext(path)) != ".gguf" {
		return FileValidation{Err: "file must have a .gguf extension"}
	}
	sizeMB := int(info.Size() / (1 << 20))
	if sizeMB < minModelFileMB {
		return FileValidation{SizeMB: sizeMB, Err: "file is too small to be a valid model"}
	}
	return FileValidation{Valid: true, SizeMB: sizeMB, Path: path}
}

// Recommended describes a model users can download for local inference.
type Recommended struct {
	Name         string `json:"name"`
	Size         string `json:"size"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	Requirements string `json:"requirements"`
}

// RecommendedModels returns the built-in suggestion catalog, or the contents
// of overridePath when that file exists and parses.
func RecommendedModels(overridePath string) []Recommended {
	if overridePath != "" && utils.Exists(overridePath) {
		if models, err := utils.Load[[]Recommended](overridePath); err == nil && len(models) > 0 {
			return models
		}
		log.Warn("ignoring unreadable model catalog override", "path", overridePath)
	}
	return []Recommended{
		{
			Name:         "TinyLlama 1.1B",
			Size:         "637MB",
			Description:  "Lightweight model, good for basic story generation",
			URL:          "https://huggingface.co/TheBloke/TinyLlama-1.1B-Chat-v1.0-GGUF",
			Requirements: "Low (2GB RAM)",
		},
		{
			Name:         "Mistral 7B Instruct",
			Size:         "4.1GB",
			Description:  "High-quality model, excellent for creative writing",
			URL:          "https://huggingface.co/TheBloke/Mistral-7B-Instruct-v0.2-GGUF",
			Requirements: "Medium (8GB RAM)",
		},
		{
			Name:         "LLaMA 2 7B",
			Size:         "3.8GB",
			Description:  "Versatile model with good story generation capabilities",
			URL:          "https://huggingface.co/TheBloke/Llama-2-7B-Chat-GGUF",
			Requirements: "Medium (8GB RAM)",
		},
		{
			Name:         "Phi-2",
			Size:         "1.6GB",
			Description:  "Compact but powerful, good balance of size and quality",
			URL:          "https://huggingface.co/TheBloke/phi-2-GGUF",
			Requirements: "Low (4GB RAM)",
		},
	}
}
