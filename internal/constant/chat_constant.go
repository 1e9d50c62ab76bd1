package constant

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleAgent     = "agent"
	ChatRoleSystem    = "system"
)

const (
	HandoffStatusWaiting = "waiting"
	HandoffStatusJoined  = "joined"
	HandoffStatusClosed  = "closed"
)

const (
	// DefaultUserID is used when an anonymous visitor opens a chat.
	DefaultUserID = "guest"

	// MaxMessageLength is the hard cap applied by the sanitizer.
	MaxMessageLength = 1000

	// RecommendedPollSeconds is the poll interval clients should use
	// against GET /session/:id/updates. Delivery latency equals this
	// interval plus request latency; polling is the delivery contract.
	RecommendedPollSeconds = 2
)

const (
	// ForwardedToAgentNotice is returned verbatim while a human agent is
	// live on the session. The AI path is never invoked in that state.
	ForwardedToAgentNotice = "Your message has been forwarded to our support agent. They will reply here shortly."

	// NoInformationFallback is returned when the completion provider is
	// down and retrieval produced nothing to fall back on.
	NoInformationFallback = "I don't have that information right now. You can request a human agent and our team will help you out."

	// WelcomeMessage answers greeting intents without a provider call.
	WelcomeMessage = "Hello! I'm the recruitment assistant. Ask me about visas, required documents, fees or processing times - or request a human agent at any time."

	ChatEndedByAgentNotice = "Chat ended by agent."
	ChatEndedByUserNotice  = "Chat ended by user."
)
