package dto

import (
	"io"

	"github.com/GregMSThompson/spendings-dashboard/internal/models"
)

type PromptRequest struct {
	Prompt string `json:"prompt"`
}

type PromptResponse struct {
	Output string `json:"output"`
}

// ScanSource names the response field a scan result was taken from.
type ScanSource string

const (
	ScanSourceImageURL ScanSource = "imageUrl"
	ScanSourceOutput   ScanSource = "output"
	ScanSourceResult   ScanSource = "result"
	ScanSourceAnalysis ScanSource = "analysis"
	ScanSourceData     ScanSource = "data"
	ScanSourceMessage  ScanSource = "message"
	ScanSourceRaw      ScanSource = "raw" // no known field; Text is the whole response
)

// ScanSourcePriority is the order in which image webhook fields are tried.
var ScanSourcePriority = []ScanSource{
	ScanSourceImageURL,
	ScanSourceOutput,
	ScanSourceResult,
	ScanSourceAnalysis,
	ScanSourceData,
	ScanSourceMessage,
}

type ScanResult struct {
	Source ScanSource `json:"source"`
	Text   string     `json:"text"`
}

// ImageUpload is a picture forwarded to the image webhook.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AssistantReply is the answer to one chat prompt plus the two transcript
// entries it produced.
type AssistantReply struct {
	Output   string               `json:"output"`
	Messages []models.ChatMessage `json:"messages"`
}
