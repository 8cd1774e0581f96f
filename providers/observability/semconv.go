package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the LLM provider (e.g., "openai", "cerebras")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the unique response identifier from the provider
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTemperature is the sampling temperature used
	AttrLLMTemperature = "llm.temperature"

	// AttrLLMMaxTokens is the maximum tokens allowed
	AttrLLMMaxTokens = "llm.max_tokens" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMStreaming reports whether the streaming endpoint shape was used
	AttrLLMStreaming = "llm.streaming"

	// AttrLLMTokensPrompt is the number of prompt tokens
	AttrLLMTokensPrompt = "llm.tokens.prompt" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensCompletion is the number of completion tokens
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensTotal is the total number of tokens
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMStreamChunks is the number of SSE chunks consumed
	AttrLLMStreamChunks = "llm.stream.chunks"
)

// --- Code Generation Attributes ---

const (
	// AttrGenerationID identifies one GenerateCode call across log lines
	AttrGenerationID = "generation.id"

	// AttrGenerationTask is the prompt prefix task (raw, generate, improve)
	AttrGenerationTask = "generation.task"

	// AttrGenerationPromptLength is the prompt length in bytes
	AttrGenerationPromptLength = "generation.prompt.length"

	// AttrGenerationOutputLength is the extracted code length in bytes
	AttrGenerationOutputLength = "generation.output.length"

	// AttrGenerationBlocks is the number of fenced code blocks found
	AttrGenerationBlocks = "generation.blocks"

	// AttrGenerationTruncated reports that the response ended early
	AttrGenerationTruncated = "generation.truncated"

	// AttrErrorKind is the classified error kind (authentication, transport, ...)
	AttrErrorKind = "error.kind"
)

// --- Session Attributes ---

const (
	// AttrSessionSlot is the storage slot being read or written
	AttrSessionSlot = "session.slot"

	// AttrChatMessages is the number of messages in a chat transcript
	AttrChatMessages = "chat.messages"

	// AttrMemoryEntryRole is the role of an appended transcript entry
	AttrMemoryEntryRole = "memory.entry.role"

	// AttrMemoryEntryLength is the content length of an appended entry
	AttrMemoryEntryLength = "memory.entry.length"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	AttrError             = "error"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanGenerateCode wraps one GenerateCode call
	SpanGenerateCode = "client.generate_code"

	// SpanLLMRequest wraps the provider HTTP exchange
	SpanLLMRequest = "llm.request"
)

// --- Event Names ---

const (
	EventLLMRequestStart = "llm.request.start"
	EventLLMRequestEnd   = "llm.request.end"
	EventClientRebound   = "client.binding.rebuilt"
	EventCodeExtracted   = "code.extracted"
	EventSessionRead     = "session.read"
	EventSessionWrite    = "session.write"
	EventMemoryAppend    = "memory.append"
	EventMemoryReset     = "memory.reset"
)

// --- Metric Names ---

const (
	// MetricGenerations counts GenerateCode calls
	MetricGenerations = "client.generations"

	// MetricGenerationErrors counts failed GenerateCode calls, tagged by error kind
	MetricGenerationErrors = "client.generation_errors"

	// MetricGenerationDuration records GenerateCode latency in milliseconds
	MetricGenerationDuration = "client.generation_duration_ms"
)
