package api

import "time"

type ScanRequest struct {
	AccessKeyID          string `json:"accessKeyId,omitempty"`
	SecretAccessKey      string `json:"secretAccessKey,omitempty"`
	EncryptedCredentials string `json:"encryptedCredentials,omitempty"`
	KeyID                string `json:"keyId,omitempty"`
	Region               string `json:"region,omitempty"`
}

type Finding struct {
	Service              string  `json:"service"`
	ResourceID           string  `json:"resourceId"`
	ResourceName         string  `json:"resourceName,omitempty"`
	Region               string  `json:"region"`
	Severity             string  `json:"severity"`
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	Suggestion           string  `json:"suggestion"`
	EstimatedMonthlyCost float64 `json:"estimatedMonthlyCost"`
	EstimatedHourlyCost  float64 `json:"estimatedHourlyCost"`
	ActionURL            string  `json:"actionUrl,omitempty"`
}

type ScanResult struct {
	ScanID                    string    `json:"scanId"`
	Findings                  []Finding `json:"findings"`
	TotalEstimatedMonthlyCost float64   `json:"totalEstimatedMonthlyCost"`
	TotalEstimatedHourlyCost  float64   `json:"totalEstimatedHourlyCost"`
	StartedAt                 time.Time `json:"startedAt"`
	FinishedAt                time.Time `json:"finishedAt"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	ScanContext string        `json:"scanContext,omitempty"`
}

type ChatResponse struct {
	Message string `json:"message"`
}

type Error struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
