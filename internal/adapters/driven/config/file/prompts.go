package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/livingcool/researchfirm/internal/core/ports/driven"
	"github.com/livingcool/researchfirm/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk, with
// embedded defaults as fallback and as the initial content for new files.
//
// The store uses lazy initialisation - files are only created when first
// accessed, not in the constructor. Watch starts an optional fsnotify
// watcher that clears the cache when a prompt file changes, so a running
// TUI or MCP server picks up edits without restarting.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// defaultPrompts contains embedded default prompts.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptPaperSelect: `You are a research assistant. A user wants to research the topic: "%s"

Below is a list of papers. Select the single most relevant paper.
Return ONLY the ID of that paper, nothing else.

%s`,

	driven.PromptPresentation: `You are an expert academic researcher. Summarise the following paper as a structured presentation in markdown with exactly these sections:

# [Title]
## Key Findings
## Methodology
## Conclusion

Paper text:
%s`,

	driven.PromptMarketReport: `You are a Senior Market Analyst. Write a market intelligence report on "%s" based on the news context below. Use markdown with exactly these sections:

## Executive Summary
## Key Trends
## Competitor Landscape
## SWOT Analysis
## Strategic Outlook

News context:
%s`,

	driven.PromptChartExtract: `Extract the most chart-worthy numerical data from the text below.
Respond with ONLY a JSON object in this exact shape:
{"title": "...", "labels": ["...", "..."], "values": [1.0, 2.0], "type": "bar"}
where "type" is one of "bar", "pie" or "line".
If the text contains no data worth charting, respond with exactly {}.

Text:
%s`,

	driven.PromptChatSystem: `You are an expert analyst. Answer based on the provided context.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.researchfirm/prompts/.
//
// The constructor does not perform any I/O - directory creation and file
// writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".researchfirm", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default
// files. Falls back to the embedded default if the file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Double-check so a concurrent load is not overwritten.
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Watch starts watching the prompt directory and clears the cache whenever
// a prompt file is written. Call Close to stop the watcher.
func (s *PromptStore) Watch() error {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	if err := watcher.Add(s.promptDir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch prompt directory: %w", err)
	}

	s.watcher = watcher
	s.done = make(chan struct{})

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
					logger.Debug("Prompt file changed: %s", event.Name)
					s.Reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Prompt watcher error: %v", err)
			case <-s.done:
				return
			}
		}
	}()

	return nil
}

// Close stops the prompt watcher if one is running.
func (s *PromptStore) Close() error {
	if s.watcher == nil {
		return nil
	}
	close(s.done)
	return s.watcher.Close()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Research Firm Prompts

This directory contains customisable prompts used by the research flows.

## Files

- ` + "`paper_select.txt`" + ` - Picks the most relevant paper from search results
- ` + "`presentation.txt`" + ` - Summarises a paper into a structured presentation
- ` + "`market_report.txt`" + ` - Generates the market intelligence report
- ` + "`chart_extract.txt`" + ` - Extracts chart data as strict JSON
- ` + "`chat_system.txt`" + ` - System prompt for grounded follow-up chat

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command, or immediately when the prompt watcher is running.

## Format Placeholders

Most prompts use Go fmt placeholders:
- ` + "`%s`" + ` - String (e.g., the topic or source text)

Ensure customised prompts maintain placeholders in the correct positions.
`
	return os.WriteFile(path, []byte(content), 0600)
}
