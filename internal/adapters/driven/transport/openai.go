package transport

import (
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIError classifies an error returned by the go-openai client, which
// also serves OpenAI-compatible providers such as Groq.
func OpenAIError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return StatusError(provider, apiErr.HTTPStatusCode, []byte(apiErr.Message))
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		msg := reqErr.HTTPStatus
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return StatusError(provider, reqErr.HTTPStatusCode, []byte(msg))
	}

	return CallError(provider, err)
}
