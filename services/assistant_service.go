package services

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/techagentng/citypulse/models"
	"gopkg.in/yaml.v3"
)

//go:embed data/assistant.yaml
var assistantData []byte

// AssistantService answers help questions from a fixed knowledge base
type AssistantService interface {
	Greeting() string
	Reply(message string) models.AssistantReply
}

type assistantService struct {
	kb models.AssistantKnowledge
}

func NewAssistantService() (AssistantService, error) {
	var kb models.AssistantKnowledge
	if err := yaml.Unmarshal(assistantData, &kb); err != nil {
		return nil, fmt.Errorf("parse assistant knowledge base: %v", err)
	}
	for i := range kb.Topics {
		for j, k := range kb.Topics[i].Keywords {
			kb.Topics[i].Keywords[j] = strings.ToLower(k)
		}
	}
	return &assistantService{kb: kb}, nil
}

func (a *assistantService) Greeting() string {
	return a.kb.Greeting
}

// Reply returns the answer of the first topic with a keyword contained in
// the message, or the fallback listing what can be asked.
func (a *assistantService) Reply(message string) models.AssistantReply {
	msg := strings.ToLower(message)
	for _, topic := range a.kb.Topics {
		for _, k := range topic.Keywords {
			if strings.Contains(msg, k) {
				return models.AssistantReply{Topic: topic.Name, Reply: topic.Answer}
			}
		}
	}
	return models.AssistantReply{Reply: a.kb.Fallback}
}
