package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/common"
	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// ProjectMatcher is the slice of the project matching service the chain
// needs to enrich answers with a project recommendation.
type ProjectMatcher interface {
	GetOrGenerateProject(ctx context.Context, focus, requirements string, forceGenerate bool) (*models.ProjectMatch, error)
}

// Chain is the answer composer: it merges retrieval output, optional project
// matching and conversation history into one prompt, invokes the language
// model once and persists the exchange.
type Chain struct {
	retriever *Retriever
	llm       interfaces.LLMService
	memory    interfaces.ConversationMemory
	projects  ProjectMatcher
	config    *common.MemoryConfig
	logger    arbor.ILogger
}

// NewChain creates an answer composer. The memory service is injected, not
// global; callers own its lifetime.
func NewChain(retriever *Retriever, llm interfaces.LLMService, memory interfaces.ConversationMemory, projects ProjectMatcher, config *common.MemoryConfig, logger arbor.ILogger) *Chain {
	return &Chain{
		retriever: retriever,
		llm:       llm,
		memory:    memory,
		projects:  projects,
		config:    config,
		logger:    logger,
	}
}

// Query processes a question through retrieval, prompting and generation.
// With a session ID the exchange is recorded and recent history shapes the
// prompt. Generation failures are terminal for the request; no retries.
func (c *Chain) Query(ctx context.Context, question, websiteContext string, topK int, sessionID string) (*models.RAGResponse, error) {
	documents, err := c.retriever.Retrieve(ctx, question, websiteContext, topK)
	if err != nil {
		return nil, err
	}

	contextText := c.retriever.FormatContext(documents)

	answer, err := c.generate(ctx, question, contextText, sessionID, websiteContext)
	if err != nil {
		return nil, err
	}

	response := &models.RAGResponse{
		Answer:        answer,
		Sources:       c.retriever.Sources(documents),
		Query:         question,
		DocumentsUsed: len(documents),
		SessionID:     sessionID,
	}

	c.logger.Debug().
		Str("session_id", sessionID).
		Int("documents_used", response.DocumentsUsed).
		Msg("Query completed")

	return response, nil
}

// QueryWithContext generates an answer from externally supplied context,
// bypassing retrieval. Used when the caller has already merged retrieval
// with project matching results. Memory handling is unchanged.
func (c *Chain) QueryWithContext(ctx context.Context, question, contextText, sessionID, websiteContext string) (string, error) {
	return c.generate(ctx, question, contextText, sessionID, websiteContext)
}

// QueryWithProject runs retrieval and project matching, merges the matched
// project into the context as an extra ranked source and generates one
// answer covering both.
func (c *Chain) QueryWithProject(ctx context.Context, question, focus, websiteContext string, topK int, sessionID string) (*models.RAGResponse, error) {
	if c.projects == nil {
		return nil, fmt.Errorf("project matching is not configured")
	}

	documents, err := c.retriever.Retrieve(ctx, question, websiteContext, topK)
	if err != nil {
		return nil, err
	}

	if focus == "" {
		focus = question
	}
	project, err := c.projects.GetOrGenerateProject(ctx, focus, question, false)
	if err != nil {
		return nil, err
	}

	contextText := c.retriever.FormatContext(documents)
	contextText += "\n\n--- Matched Project ---\n" + formatProjectContext(project)

	answer, err := c.generate(ctx, question, contextText, sessionID, websiteContext)
	if err != nil {
		return nil, err
	}

	sources := c.retriever.Sources(documents)
	sources = append(sources, models.SourceDocument{
		Content: formatProjectContext(project),
		Source:  "project_match",
		ChunkID: project.SourceChunkID,
		Score:   roundScore(project.RelevanceScore),
	})

	return &models.RAGResponse{
		Answer:        answer,
		Sources:       sources,
		Query:         question,
		DocumentsUsed: len(documents),
		SessionID:     sessionID,
		Project:       project,
	}, nil
}

// generate builds the prompt pair, calls the model once and records the
// exchange when a session is active.
func (c *Chain) generate(ctx context.Context, question, contextText, sessionID, websiteContext string) (string, error) {
	conversationHistory := ""
	if sessionID != "" {
		conversationHistory = c.memory.FormattedHistory(sessionID, websiteContext, c.config.HistoryMaxMessages)
	}

	userPrompt := BuildUserPrompt(contextText, question, conversationHistory)

	answer, err := c.llm.Generate(ctx, SystemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}

	if sessionID != "" {
		c.memory.AddExchange(sessionID, websiteContext, question, answer)
	}
	return answer, nil
}

// formatProjectContext renders a project match as a context block.
func formatProjectContext(project *models.ProjectMatch) string {
	return fmt.Sprintf("Project: %s\nType: %s\nLocation: %s\nFocus Areas: %s\nDescription: %s\nMethodology: %s",
		project.Name, project.ProjectType, project.Location,
		strings.Join(project.FocusAreas, ", "), project.Description, project.Methodology)
}
