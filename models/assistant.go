package models

// AssistantTopic is one knowledge base entry. A message matches when it
// contains any of the keywords.
type AssistantTopic struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Answer   string   `json:"answer" yaml:"answer"`
}

type AssistantKnowledge struct {
	Greeting string           `yaml:"greeting"`
	Fallback string           `yaml:"fallback"`
	Topics   []AssistantTopic `yaml:"topics"`
}

type AssistantRequest struct {
	Message string `json:"message" conform:"trim" validate:"required,max=500"`
}

type AssistantReply struct {
	Topic string `json:"topic"`
	Reply string `json:"reply"`
}
