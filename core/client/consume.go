package client

import (
	"context"

	"github.com/cricket-aus/sukode-try/providers/ai"
)

// consume runs one request through the middleware chain and returns the
// accumulated response. In streaming mode the deltas are folded into a
// buffer owned by this call; on a mid-stream failure the partial response
// is returned together with the classified error.
func consume(ctx context.Context, provider ai.Provider, middlewares []MiddlewareConfig, request ai.ChatRequest, streaming bool) (*ai.ChatResponse, error) {
	if !streaming {
		response, err := sendChain(provider, middlewares)(ctx, request)
		if err != nil {
			return nil, ai.Classify(err)
		}
		if response == nil {
			response = &ai.ChatResponse{}
		}
		return response, nil
	}

	stream, err := streamChain(provider, middlewares)(ctx, request)
	if err != nil {
		return nil, ai.Classify(err)
	}

	response, err := stream.Collect()
	if err != nil {
		return response, ai.Classify(err)
	}
	return response, nil
}
