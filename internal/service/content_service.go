package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/Quokkas/config"
	"github.com/lshigami/Quokkas/internal/lexile"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GeneratedQuestion is one MCQ as produced by the content provider, fully
// validated: four options, a correct letter in A-D, and a factor label
// that resolved against the fixed vocabulary.
type GeneratedQuestion struct {
	Text          string
	Options       [4]string
	CorrectOption string
	Factor        string
}

// ContentService generates a reading passage plus exactly five labeled
// MCQs at a target lexile level. The student's current factor scores let
// the prompt steer questions toward weaker skills. Fails closed: callers
// never see a malformed set.
type ContentService interface {
	Generate(ctx context.Context, age int, topic string, targetLevel int, factorScores map[string]int) (string, []GeneratedQuestion, error)
}

type geminiContentService struct {
	client   *genai.GenerativeModel
	cfg      *config.Config
	attempts int
}

func NewContentService(cfg *config.Config) (ContentService, error) {
	attempts := cfg.ContentRetries
	if attempts <= 0 {
		attempts = 3
	}
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. ContentService will be non-functional.")
		return &geminiContentService{cfg: cfg, client: nil, attempts: attempts}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.GeminiModel)
	return &geminiContentService{client: model, cfg: cfg, attempts: attempts}, nil
}

func (s *geminiContentService) Generate(ctx context.Context, age int, topic string, targetLevel int, factorScores map[string]int) (string, []GeneratedQuestion, error) {
	if s.client == nil {
		return "", nil, fmt.Errorf("%w: gemini client not initialized", ErrContentGeneration)
	}

	prompt := buildContentPrompt(age, topic, targetLevel, factorScores)
	for attempt := 1; attempt <= s.attempts; attempt++ {
		resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Str("topic", topic).Msg("Gemini API error during content generation")
			continue
		}

		raw := responseText(resp)
		if raw == "" {
			log.Warn().Int("attempt", attempt).Msg("Gemini returned no text content")
			continue
		}

		content, questions := parseContentAndQuestions(raw)
		if content != "" && len(questions) == 5 {
			return content, questions, nil
		}
		log.Warn().Int("attempt", attempt).Int("questions", len(questions)).Msg("Generated content did not parse into a passage and exactly 5 questions")
	}

	return "", nil, fmt.Errorf("%w after %d attempts", ErrContentGeneration, s.attempts)
}

func buildContentPrompt(age int, topic string, targetLevel int, factorScores map[string]int) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant trained to generate educational content and multiple-choice questions (MCQs) for students.\n")
	fmt.Fprintf(&b, "Please generate an engaging short piece of content suitable for a %d-year-old student on the topic of %s.\n", age, topic)
	fmt.Fprintf(&b, "The content should be at approximately a %d Lexile level.\n\n", targetLevel)
	if len(factorScores) > 0 {
		b.WriteString("The student's current scores per evaluation factor (0-100):\n")
		for _, f := range lexile.Factors {
			fmt.Fprintf(&b, "- %s: %d\n", f, factorScores[f])
		}
		b.WriteString("Where possible, favor questions that exercise the factors with the lowest scores.\n\n")
	}
	b.WriteString("Content guidelines based on Lexile level:\n")
	b.WriteString("- For Lexile levels below 200: Generate 1-2 very simple sentences.\n")
	b.WriteString("- For Lexile levels 200-500: Generate 2-4 simple sentences.\n")
	b.WriteString("- For Lexile levels 500-800: Generate a short paragraph (4-6 sentences).\n")
	b.WriteString("- For Lexile levels above 800: Generate a longer paragraph or short story with a clear beginning, middle, and end.\n\n")
	b.WriteString("Adjust vocabulary, sentence structure, and content complexity to match the target Lexile level.\n\n")
	b.WriteString("Then, create EXACTLY 5 multiple-choice questions based on this content. Each question should evaluate a different skill from the following list:\n")
	b.WriteString(strings.Join(lexile.Factors, ", "))
	b.WriteString("\n\nFormat your response EXACTLY as follows:\n")
	b.WriteString("Content:\n[Your generated content here]\n\n")
	b.WriteString("Questions:\n")
	b.WriteString("1. [Evaluation Factor]: [Question 1]\n")
	b.WriteString("   A) [Option A]\n   B) [Option B]\n   C) [Option C]\n   D) [Option D]\n")
	b.WriteString("   Correct Answer: [Correct option letter]\n\n")
	b.WriteString("[Repeat for questions 2-5]\n\n")
	b.WriteString("Important:\n")
	b.WriteString("- Do not include asterisks (**) or other markdown formatting.\n")
	b.WriteString("- Do not include \"Question X\" in the question text.\n")
	b.WriteString("- Place the Evaluation Factor before the question, separated by a colon.\n")
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

var (
	contentSection = regexp.MustCompile(`(?s)Content:(.*?)Questions:`)
	questionSplit  = regexp.MustCompile(`\n\s*\d+\.\s*`)
	markdownMarks  = regexp.MustCompile(`\*+`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

func cleanText(text string) string {
	text = markdownMarks.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// parseContentAndQuestions splits the model output into a passage and MCQ
// blocks. Malformed question blocks are dropped; the caller enforces the
// exactly-5 contract.
func parseContentAndQuestions(raw string) (string, []GeneratedQuestion) {
	m := contentSection.FindStringSubmatch(raw)
	if m == nil {
		return "", nil
	}
	content := cleanText(m[1])

	_, questionsRaw, found := strings.Cut(raw, "Questions:")
	if !found {
		return content, nil
	}

	var questions []GeneratedQuestion
	for _, block := range questionSplit.Split(questionsRaw, -1) {
		q, ok := parseQuestionBlock(block)
		if !ok {
			continue
		}
		questions = append(questions, q)
	}
	return content, questions
}

func parseQuestionBlock(block string) (GeneratedQuestion, bool) {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	// a question, four options, and a correct-answer line at minimum
	if len(lines) < 6 {
		return GeneratedQuestion{}, false
	}

	label, text, found := strings.Cut(lines[0], ":")
	if !found {
		return GeneratedQuestion{}, false
	}
	factor, ok := lexile.MatchFactor(cleanText(label))
	if !ok {
		return GeneratedQuestion{}, false
	}

	var q GeneratedQuestion
	q.Factor = factor
	q.Text = cleanText(text)
	for i := 0; i < 4; i++ {
		opt := lines[1+i]
		// strip "A) " / "A. " style prefixes
		if len(opt) >= 2 && (opt[1] == ')' || opt[1] == '.') {
			opt = opt[2:]
		}
		q.Options[i] = cleanText(opt)
	}

	for _, line := range lines[5:] {
		if strings.HasPrefix(strings.ToLower(line), "correct answer:") {
			_, answer, _ := strings.Cut(line, ":")
			answer = strings.ToUpper(cleanText(answer))
			if len(answer) > 0 {
				answer = answer[:1]
			}
			if answer >= "A" && answer <= "D" {
				q.CorrectOption = answer
			}
			break
		}
	}
	if q.Text == "" || q.CorrectOption == "" {
		return GeneratedQuestion{}, false
	}
	return q, true
}
