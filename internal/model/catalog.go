package model

// Provider is a hosting company that serves models through the gateway.
type Provider struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Website string `json:"website"`
}

// Model is a routable AI model. Company is the organization that trained it.
type Model struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Slug    string   `json:"slug"`
	Company Provider `json:"company"`
}

// ModelRef is the embedded model shape inside a mapping response.
type ModelRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Mapping prices one model on one provider, per million tokens.
type Mapping struct {
	ID              int64    `json:"id"`
	InputTokenCost  float64  `json:"inputTokenCost"`
	OutputTokenCost float64  `json:"outputTokenCost"`
	Model           ModelRef `json:"model"`
	Provider        Provider `json:"provider"`
}
