package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"docuchat/internal/ai"
	"docuchat/internal/model"
	"docuchat/internal/pkg/pdfextract"
	"docuchat/internal/storage"
)

// FallbackAnswer is the fixed phrase the model is instructed to return when
// the document does not contain the requested information. It doubles as
// the sanitized reply for upstream failures.
const FallbackAnswer = "Answer not found in the provided document."

// User-facing diagnostics for the early-exit pipeline states. The chat
// endpoint answers 200 with one of these instead of surfacing an error.
const (
	ReplyNoDocument      = "You haven't uploaded a document yet. Upload one and ask your question again."
	ReplyBlobMissing     = "The stored copy of your document could not be found. Please upload it again."
	ReplyNoReadableText  = "No readable text could be extracted from your most recent document."
	ReplyUpstreamFailure = "Sorry, I couldn't generate an answer right now. Please try again."
)

const systemPrompt = "You are a document assistant. Answer the user's question using only the information in the provided document content. " +
	"If the document does not contain the information needed to answer, reply with exactly: \"" + FallbackAnswer + "\" " +
	"Format every answer with bold headings and bullet points only."

type contextOutcome int

const (
	contextReady contextOutcome = iota
	contextNoDocument
	contextBlobMissing
	contextNoReadableText
)

// Completer is the inference gateway contract.
type Completer interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// TranscriptPublisher enqueues chat messages for asynchronous persistence.
type TranscriptPublisher interface {
	Publish(ctx context.Context, msg model.ChatMessage) error
}

// TranscriptStore reads back persisted chat messages.
type TranscriptStore interface {
	ListByUserID(userID uint, limit int) ([]model.ChatMessage, error)
}

// ContextCache stores a built context tagged with the file it came from.
type ContextCache interface {
	Get(ctx context.Context, ownerID uint) (fileID uint, text string, hit bool, err error)
	Set(ctx context.Context, ownerID, fileID uint, text string) error
}

type ChatService struct {
	files           FileStore
	blobs           BlobStore
	cache           ContextCache
	publisher       TranscriptPublisher
	transcripts     TranscriptStore
	llm             Completer
	llmCfg          ai.ChatConfig
	maxContextChars int
	logger          *zap.Logger
}

type AskInput struct {
	UserID  uint
	Message string
}

func NewChatService(
	files FileStore,
	blobs BlobStore,
	cache ContextCache,
	publisher TranscriptPublisher,
	transcripts TranscriptStore,
	llm Completer,
	llmCfg ai.ChatConfig,
	maxContextChars int,
	logger *zap.Logger,
) *ChatService {
	if maxContextChars <= 0 {
		maxContextChars = 6000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		files:           files,
		blobs:           blobs,
		cache:           cache,
		publisher:       publisher,
		transcripts:     transcripts,
		llm:             llm,
		llmCfg:          llmCfg,
		maxContextChars: maxContextChars,
		logger:          logger,
	}
}

// Ask runs the document-scoped query pipeline: resolve the active document,
// bound its text, call the model, and always come back with a user-facing
// reply. Only invalid input and store failures surface as errors; every
// pipeline outcome, including an upstream failure, is a normal reply.
func (s *ChatService) Ask(ctx context.Context, input AskInput) (string, error) {
	if input.UserID == 0 {
		return "", ErrInvalidInput
	}
	question := strings.TrimSpace(input.Message)
	if question == "" {
		return "", ErrInvalidInput
	}

	docContext, fileID, outcome, err := s.buildContext(ctx, input.UserID)
	if err != nil {
		return "", err
	}

	var reply string
	switch outcome {
	case contextNoDocument:
		reply = ReplyNoDocument
	case contextBlobMissing:
		s.logger.Warn("registry references a missing blob",
			zap.Uint("user_id", input.UserID),
			zap.Uint("file_id", fileID),
		)
		reply = ReplyBlobMissing
	case contextNoReadableText:
		reply = ReplyNoReadableText
	case contextReady:
		reply = s.askModel(ctx, docContext, question)
	}

	s.logTranscript(ctx, input.UserID, fileID, question, reply)
	return reply, nil
}

func (s *ChatService) askModel(ctx context.Context, docContext, question string) string {
	messages := []ai.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{
			Role:    "user",
			Content: "Document content:\n" + docContext + "\n\nQuestion: " + question,
		},
	}

	answer, err := s.llm.Complete(ctx, s.llmCfg, messages)
	if err != nil {
		// Raw upstream detail stays on the operator side.
		s.logger.Error("llm completion failed", zap.Error(err))
		return ReplyUpstreamFailure
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return FallbackAnswer
	}
	return answer
}

// buildContext resolves the caller's active document (most recent upload)
// and returns its extracted text truncated to the context bound.
func (s *ChatService) buildContext(ctx context.Context, userID uint) (string, uint, contextOutcome, error) {
	file, err := s.files.MostRecentByOwner(userID)
	if err != nil {
		return "", 0, 0, err
	}
	if file == nil {
		return "", 0, contextNoDocument, nil
	}

	if s.cache != nil {
		if cachedID, text, hit, cacheErr := s.cache.Get(ctx, userID); cacheErr == nil && hit && cachedID == file.ID {
			return text, file.ID, contextReady, nil
		}
	}

	data, err := s.blobs.Read(file.StoredName)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return "", file.ID, contextBlobMissing, nil
		}
		return "", file.ID, 0, err
	}

	text, err := pdfextract.FromContentType(file.ContentType, data)
	if err != nil {
		return "", file.ID, 0, err
	}
	if strings.TrimSpace(text) == "" {
		return "", file.ID, contextNoReadableText, nil
	}

	text = truncateRunes(text, s.maxContextChars)

	if s.cache != nil {
		_ = s.cache.Set(ctx, userID, file.ID, text)
	}
	return text, file.ID, contextReady, nil
}

// History returns the caller's persisted transcript, oldest first. The
// transcript is written asynchronously, so a just-asked question may not
// appear yet.
func (s *ChatService) History(userID uint, limit int) ([]model.ChatMessage, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	if s.transcripts == nil {
		return nil, nil
	}
	return s.transcripts.ListByUserID(userID, limit)
}

func (s *ChatService) logTranscript(ctx context.Context, userID, fileID uint, question, reply string) {
	if s.publisher == nil {
		return
	}
	now := time.Now()
	entries := []model.ChatMessage{
		{UserID: userID, FileID: fileID, Role: "user", Content: question, CreatedAt: now},
		{UserID: userID, FileID: fileID, Role: "assistant", Content: reply, CreatedAt: now},
	}
	for _, entry := range entries {
		if err := s.publisher.Publish(ctx, entry); err != nil {
			s.logger.Warn("publish chat transcript failed", zap.Error(err))
			return
		}
	}
}

// truncateRunes takes the first limit characters; a hard bound with no
// sentence or word awareness.
func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
