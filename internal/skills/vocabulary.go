// Package skills implements the controlled skill vocabulary and the
// keyword extraction and scoring used for resume screening.
package skills

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"resumescreen/internal/errors"
)

// defaultTerms is the built-in skill vocabulary. Terms are lower-case,
// duplicate-free and kept in a fixed order so that extraction results are
// reproducible across runs.
var defaultTerms = []string{
	// Frontend & Web
	"html", "css", "scss", "sass", "javascript", "typescript", "react", "redux",
	"next.js", "vue.js", "angular", "bootstrap", "tailwind css", "jquery",
	"responsive design", "web accessibility", "ui/ux", "figma", "adobe xd",

	// Backend & Core Programming
	"java", "spring", "spring boot", "hibernate", "rest api", "restful apis",
	"microservices", "servlets", "jsp", "sql", "mysql", "postgresql", "mongodb",
	"oracle", "node.js", "express.js", "php", "c", "c++", "c#", ".net", "flask", "django",

	// Android Development
	"android", "kotlin", "java for android", "android studio", "xml", "firebase",
	"retrofit", "room", "jetpack", "mvvm", "mvp", "jetpack compose", "google maps api",
	"material design", "rest", "json", "application design", "application development",
	"play store deployment", "android sdk", "lifecycle management",

	// DevOps & Cloud
	"git", "github", "gitlab", "bitbucket", "jenkins", "docker", "kubernetes",
	"aws", "gcp", "azure", "ci/cd", "terraform", "ansible", "helm", "monitoring",
	"grafana", "prometheus", "logstash", "devops tools",

	// Data Science & Machine Learning
	"python", "r", "pandas", "numpy", "scikit-learn", "matplotlib", "seaborn",
	"tensorflow", "pytorch", "keras", "xgboost", "lightgbm", "mlops", "mlflow",
	"airflow", "data preprocessing", "model evaluation", "feature engineering",

	// NLP
	"nlp", "text preprocessing", "nltk", "spacy", "transformers", "bert", "gpt",
	"hugging face", "langchain", "text classification", "sentiment analysis",
	"topic modeling", "ner", "text summarization",

	// Tools & Platforms
	"jupyter", "colab", "vs code", "pycharm", "eclipse", "intellij",
	"postman", "swagger", "docker hub", "heroku", "netlify", "streamlit",

	// BI & Analytics
	"power bi", "tableau", "excel", "data visualization", "data analysis",
	"dash", "looker", "metabase", "superset",

	// Software Engineering Practices
	"agile", "scrum", "jira", "confluence", "uml", "software development lifecycle",
	"system design", "api design", "unit testing", "integration testing", "test cases",

	// Soft Skills / Misc
	"problem solving", "communication", "teamwork", "critical thinking",
	"debugging", "adaptability", "leadership", "collaboration",
	"time management", "presentation", "analytical thinking", "creativity",
}

// Vocabulary is the process-wide skill list. It is loaded once at startup and
// read-only for scoring; Replace is only called by the file watcher, so reads
// take a snapshot under an RWMutex.
type Vocabulary struct {
	mu    sync.RWMutex
	terms []string
}

// NewDefaultVocabulary returns the built-in vocabulary.
func NewDefaultVocabulary() *Vocabulary {
	return &Vocabulary{terms: defaultTerms}
}

// LoadVocabulary reads a vocabulary file: one term per line, lower-cased,
// blank lines and '#' comments skipped, duplicates dropped (first wins).
func LoadVocabulary(path string) (*Vocabulary, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("Vocabulary file not found: %s", path), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read vocabulary file: %s", path), err)
	}
	defer file.Close()

	terms, err := parseTerms(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read vocabulary file: %s", path), err)
	}
	if len(terms) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyInput,
			fmt.Sprintf("Vocabulary file contains no terms: %s", path), nil)
	}

	return &Vocabulary{terms: terms}, nil
}

func parseTerms(file *os.File) ([]string, error) {
	var terms []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		term := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if term == "" || strings.HasPrefix(term, "#") {
			continue
		}
		if seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}

	return terms, scanner.Err()
}

// Terms returns the current vocabulary snapshot in vocabulary order.
// The returned slice must not be mutated.
func (v *Vocabulary) Terms() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.terms
}

// Len returns the number of terms in the current snapshot.
func (v *Vocabulary) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.terms)
}

// Replace swaps in a new term list. Used by the vocabulary watcher on reload.
func (v *Vocabulary) Replace(terms []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.terms = terms
}
