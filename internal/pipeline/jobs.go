package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dcunha/narravox/internal/llm"
)

// JobStatus represents the state of a narration job.
type JobStatus string

const (
	StatusQueued           JobStatus = "queued"
	StatusExtracting       JobStatus = "extracting"
	StatusNarrating        JobStatus = "narrating"
	StatusDescribingImages JobStatus = "describing_images"
	StatusSynthesizing     JobStatus = "synthesizing"
	StatusCompleted        JobStatus = "completed"
	StatusFailed           JobStatus = "failed"
	StatusPartial          JobStatus = "partial"
)

// Job tracks the state of a single document narration.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	// Processing parameters, fixed at submission.
	Target        llm.Target `json:"-"`
	PromptProfile string     `json:"prompt_profile"`
	ChunkWords    int        `json:"-"`

	// Speech parameters; WantAudio gates the synthesis phase.
	WantAudio      bool   `json:"want_audio"`
	SpeechProvider string `json:"-"`
	SpeechVoice    string `json:"-"`
	SpeechModel    string `json:"-"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Artifact names, set as phases complete.
	TextArtifact  string `json:"text_artifact,omitempty"`
	AudioArtifact string `json:"audio_artifact,omitempty"`

	// Internal: not serialized.
	fileData []byte
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalChunks     int      `json:"total_chunks"`
	ChunksProcessed int      `json:"chunks_processed"`
	ChunksFailed    int      `json:"chunks_failed"`
	ImagesTotal     int      `json:"images_total"`
	ImagesDescribed int      `json:"images_described"`
	AudioBytes      int      `json:"audio_bytes"`
	LastMessage     string   `json:"last_message,omitempty"`
	Errors          []string `json:"errors"`
}

// NewJob creates a queued job with a fresh ID.
func NewJob(filename string, fileData []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        generateULID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		fileData:  fileData,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetProgress updates the chunk counters and last progress message.
func (j *Job) SetProgress(processed, total int, message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksProcessed = processed
	j.Progress.TotalChunks = total
	j.Progress.LastMessage = message
	j.UpdatedAt = time.Now()
}

// AddChunkFailures records how many chunks were replaced by inline markers.
func (j *Job) AddChunkFailures(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksFailed += n
	j.UpdatedAt = time.Now()
}

// SetImagesTotal records how many images the document carried.
func (j *Job) SetImagesTotal(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ImagesTotal = n
	j.UpdatedAt = time.Now()
}

// SetImageProgress updates the image counters and last message; the text
// chunk counters are left untouched.
func (j *Job) SetImageProgress(described, total int, message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ImagesDescribed = described
	j.Progress.ImagesTotal = total
	j.Progress.LastMessage = message
	j.UpdatedAt = time.Now()
}

// SetMeta records the resolved title and content hash.
func (j *Job) SetMeta(title, hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Title = title
	j.ContentHash = hash
	j.UpdatedAt = time.Now()
}

// SetAudioBytes records the size of the synthesized audio.
func (j *Job) SetAudioBytes(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.AudioBytes = n
	j.UpdatedAt = time.Now()
}

// SetArtifacts records the stored artifact names.
func (j *Job) SetArtifacts(text, audio string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if text != "" {
		j.TextArtifact = text
	}
	if audio != "" {
		j.AudioArtifact = audio
	}
	j.UpdatedAt = time.Now()
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// ReleaseFileData drops the upload bytes once extraction is done.
func (j *Job) ReleaseFileData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID            string    `json:"job_id"`
	Status        JobStatus `json:"status"`
	Phase         string    `json:"phase"`
	Filename      string    `json:"filename"`
	Title         string    `json:"title"`
	PromptProfile string    `json:"prompt_profile"`
	WantAudio     bool      `json:"want_audio"`
	Progress      Progress  `json:"progress"`
	ContentHash   string    `json:"content_hash,omitempty"`
	TextArtifact  string    `json:"text_artifact,omitempty"`
	AudioArtifact string    `json:"audio_artifact,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	snap := JobSnapshot{
		ID:            j.ID,
		Status:        j.Status,
		Phase:         j.Phase,
		Filename:      j.Filename,
		Title:         j.Title,
		PromptProfile: j.PromptProfile,
		WantAudio:     j.WantAudio,
		Progress:      j.Progress,
		ContentHash:   j.ContentHash,
		TextArtifact:  j.TextArtifact,
		AudioArtifact: j.AudioArtifact,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
	snap.Progress.Errors = errs
	return snap
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
