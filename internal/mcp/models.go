package mcp

import (
	"github.com/mvp-joe/cortex-skeleton/internal/skeleton/extractor"
)

// SkeletonSource produces skeleton text. *extractor.Extractor satisfies it.
type SkeletonSource interface {
	ExtractSkeleton(fileName string, content []byte, verbose bool) (string, bool)
	Supports(fileName string) bool
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	// RootDir is the project root. Relative tool paths resolve against it and
	// paths outside it are rejected.
	RootDir string

	// FullDocs is the default for the full_docs tool argument.
	FullDocs bool

	// MaxBatch caps the number of paths accepted by get_skeletons.
	MaxBatch int
}

// DefaultServerConfig returns a configuration rooted at the current directory.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		RootDir:  ".",
		MaxBatch: 50,
	}
}

// GetSkeletonsRequest holds the get_skeletons arguments.
type GetSkeletonsRequest struct {
	Paths    []string `json:"paths"`
	FullDocs *bool    `json:"full_docs,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

// SkeletonResult is one entry of a get_skeletons response. Fallback is set
// when the client should read the full file instead.
type SkeletonResult struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
	Skeleton string `json:"skeleton,omitempty"`
	Fallback bool   `json:"fallback"`
	Error    string `json:"error,omitempty"`
}

// GetSkeletonsResponse is the JSON body returned by get_skeletons.
type GetSkeletonsResponse struct {
	Results   []SkeletonResult `json:"results"`
	Total     int              `json:"total"`
	Fallbacks int              `json:"fallbacks"`
}

// LanguageInfo describes one supported language.
type LanguageInfo struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

// LanguagesResponse is the JSON body returned by list_skeleton_languages.
type LanguagesResponse struct {
	Languages []LanguageInfo `json:"languages"`
}

func supportedLanguages(source SkeletonSource) LanguagesResponse {
	resp := LanguagesResponse{Languages: []LanguageInfo{}}
	for _, lang := range extractor.Languages() {
		exts := extractor.Extensions(lang)
		if len(exts) == 0 || !source.Supports("probe"+exts[0]) {
			continue
		}
		resp.Languages = append(resp.Languages, LanguageInfo{
			Name:       string(lang),
			Extensions: exts,
		})
	}
	return resp
}
