package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Kept short for reasonable UX; names are trimmed before the check.
	MaxFolderNameLength = 100

	// MaxFolderDescriptionLength is the maximum length for folder
	// descriptions.
	MaxFolderDescriptionLength = 500

	// MaxFolderIconLength is the maximum length for folder icon names.
	MaxFolderIconLength = 50

	// MaxBookmarkTitleLength is the maximum length for bookmark titles.
	// Limited to 500 since browser extensions post whatever the page's
	// <title> contains.
	MaxBookmarkTitleLength = 500

	// MaxBookmarkURLLength is the maximum length for bookmark URLs.
	MaxBookmarkURLLength = 2048
)
