package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/edusprout/edusprout/internal/cache"
	apperrors "github.com/edusprout/edusprout/pkg/errors"
)

const (
	resumeMaxLength    = 50_000
	resumeCacheTTL     = time.Hour
	resumeCachePrefix  = "resume:score:"
	resumeMinWordCount = 120
	resumeMaxWordCount = 900
)

// ResumeCheck is one line of scoring feedback.
type ResumeCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Points  int    `json:"points"`
	Message string `json:"message"`
}

// ResumeScoreDTO is the result of analysing a resume.
type ResumeScoreDTO struct {
	Score  int           `json:"score"`
	Checks []ResumeCheck `json:"checks"`
}

// Skill keywords recruiters scan for. Matching is case-insensitive on word
// boundaries.
var resumeSkillKeywords = []string{
	"python", "java", "javascript", "typescript", "sql", "excel",
	"leadership", "teamwork", "communication", "research", "analysis",
	"project management", "internship", "volunteer",
}

var (
	quantifiedPattern = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*(%|percent|people|users|students|hours|projects|members|teams)\b`)
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	sectionPattern    = regexp.MustCompile(`(?im)^\s*(education|experience|skills|projects|awards)\b`)
)

// ResumeService scores resume text with a transparent rule-based heuristic.
// Scores are cached by content hash so re-submitting the same text is cheap.
type ResumeService struct {
	store cache.Store
}

// NewResumeService constructs a ResumeService. A nil store disables caching.
func NewResumeService(store cache.Store) *ResumeService {
	return &ResumeService{store: store}
}

// Score analyses the supplied resume text and returns a 0-100 score with a
// per-check breakdown.
func (s *ResumeService) Score(ctx context.Context, text string) (*ResumeScoreDTO, error) {
	ctx = ensureContext(ctx)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewBadRequest("resume text is required")
	}
	if len(text) > resumeMaxLength {
		return nil, apperrors.NewBadRequest("resume text is too long")
	}

	key := resumeCacheKey(text)
	if s.store != nil {
		if data, ok, err := s.store.Get(ctx, key); err == nil && ok {
			var cached ResumeScoreDTO
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	result := scoreResume(text)

	if s.store != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = s.store.Set(ctx, key, data, resumeCacheTTL)
		}
	}
	return result, nil
}

func scoreResume(text string) *ResumeScoreDTO {
	lower := strings.ToLower(text)
	words := countWords(text)

	var checks []ResumeCheck
	add := func(name string, passed bool, points int, passMsg, failMsg string) {
		check := ResumeCheck{Name: name, Passed: passed}
		if passed {
			check.Points = points
			check.Message = passMsg
		} else {
			check.Message = failMsg
		}
		checks = append(checks, check)
	}

	add("length", words >= resumeMinWordCount && words <= resumeMaxWordCount, 20,
		"Good length for a one-page resume.",
		"Aim for roughly 120-900 words.")

	matched := 0
	for _, keyword := range resumeSkillKeywords {
		if containsWord(lower, keyword) {
			matched++
		}
	}
	add("skills", matched >= 4, 25,
		"Strong coverage of skill keywords.",
		"Mention more concrete skills (tools, languages, soft skills).")

	add("quantified_results", len(quantifiedPattern.FindAllString(text, 3)) >= 2, 25,
		"Achievements are backed by numbers.",
		"Quantify results, e.g. \"improved throughput by 30%\".")

	add("contact_info", emailPattern.MatchString(text), 10,
		"Contact email found.",
		"Add a contact email address.")

	add("sections", len(sectionPattern.FindAllString(text, 3)) >= 2, 20,
		"Clear section structure.",
		"Use standard headings such as Education, Experience and Skills.")

	score := 0
	for _, check := range checks {
		score += check.Points
	}
	return &ResumeScoreDTO{Score: score, Checks: checks}
}

func resumeCacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return resumeCachePrefix + hex.EncodeToString(sum[:])
}

func countWords(text string) int {
	return len(strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r)
	}))
}

// containsWord reports whether needle occurs in haystack on word boundaries.
func containsWord(haystack, needle string) bool {
	idx := 0
	for {
		pos := strings.Index(haystack[idx:], needle)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(needle)

		beforeOK := start == 0 || !isWordChar(rune(haystack[start-1]))
		afterOK := end == len(haystack) || !isWordChar(rune(haystack[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
