package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// DNDVerificationResult mirrors the expected JSON from GPT-4o.
type DNDVerificationResult struct {
	DNDMarkerVisible   bool   `json:"dnd_marker_visible"`
	DoorNumberMatches  bool   `json:"door_number_matches"`
	DoorNumberDetected string `json:"door_number_detected,omitempty"`
}

// OpenAIService wraps the OpenAI client. If client is nil, verification is
// skipped.
type OpenAIService struct {
	client *openai.Client
}

// NewOpenAIService creates the service. Pass an empty apiKey to disable calls.
func NewOpenAIService(apiKey string) *OpenAIService {
	if apiKey == "" {
		return &OpenAIService{client: nil}
	}
	c := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIService{client: &c}
}

// VerifyDNDPhoto sends the evidence image to GPT-4o Vision and returns
// structured booleans: is a DND marker (hanger/sign) visible, and does the
// visible door number match the expected room.
func (s *OpenAIService) VerifyDNDPhoto(
	ctx context.Context,
	img []byte,
	expectedDoor string,
) (*DNDVerificationResult, error) {

	// Feature disabled; auto-accept.
	if s.client == nil {
		return &DNDVerificationResult{
			DNDMarkerVisible:  true,
			DoorNumberMatches: true,
		}, nil
	}

	b64 := base64.StdEncoding.EncodeToString(img)

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dnd_marker_visible":   map[string]string{"type": "boolean"},
			"door_number_matches":  map[string]string{"type": "boolean"},
			"door_number_detected": map[string]string{"type": "string"},
		},
		"required": []string{
			"dnd_marker_visible",
			"door_number_matches",
			"door_number_detected",
		},
		"additionalProperties": false,
	}

	fn := shared.FunctionDefinitionParam{
		Name:        "verify_dnd_marker",
		Description: openai.String("Return booleans indicating whether the Do-Not-Disturb evidence photo meets all criteria."),
		Strict:      openai.Bool(true),
		Parameters:  schema,
	}

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModelGPT4oMini,
		Messages: []openai.ChatCompletionMessageParamUnion{{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						openai.TextContentPart(fmt.Sprintf(`Check this image.

Return JSON by calling verify_dnd_marker(strict).
Rules:
1. dnd_marker_visible = true if a Do-Not-Disturb hanger, sign or indicator light is visible on or near the door.
2. door_number_matches = true if the visible door number == "%s".

If you can't see a door number set door_number_matches=false and door_number_detected="".`, expectedDoor)),
						openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
							URL:    "data:image/jpeg;base64," + b64,
							Detail: "low",
						}),
					},
				},
			},
		}},
		Tools: []openai.ChatCompletionToolParam{{
			Function: fn,
		}},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{
					Name: "verify_dnd_marker",
				},
			},
		},
	}

	resp, err := s.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return nil, fmt.Errorf("openai: no function call returned")
	}

	var out DNDVerificationResult
	if err := json.Unmarshal(
		[]byte(resp.Choices[0].Message.ToolCalls[0].Function.Arguments),
		&out,
	); err != nil {
		return nil, fmt.Errorf("unmarshal verification result: %w", err)
	}

	return &out, nil
}
