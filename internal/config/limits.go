package config

const (
	// MaxProjectTitleLength is the maximum length for project titles.
	// Titles carry a unique index, so they should stay short.
	MaxProjectTitleLength = 255

	// MaxPromptVersionLength is the maximum length for prompt version labels.
	MaxPromptVersionLength = 64

	// MaxPromptContentLength is the maximum length for prompt content.
	MaxPromptContentLength = 32_000

	// MaxDialogTitleLength is the maximum length for dialog titles.
	MaxDialogTitleLength = 255

	// MaxMessageContentLength is the maximum length for a single message.
	MaxMessageContentLength = 32_000

	// MaxMessagesPerAppend caps how many messages one append may carry.
	MaxMessagesPerAppend = 100

	// MaxHistoryMessages caps the history a generation request may send.
	MaxHistoryMessages = 200
)
