package extract

import (
	"iter"
	"net/url"
	"regexp"

	"seasonvar/internal/httputil"
	"seasonvar/internal/media"
)

var (
	// file: "https://cdn/.../index.m3u8" as written by JS player configs.
	fileAssignment = regexp.MustCompile(`file:\s*["']([^"']*?\.(?:mp4|m3u8))["']`)

	// src="...mp4" on any tag.
	srcAttribute = regexp.MustCompile(`src=["']([^"']*?\.(?:mp4|m3u8))["']`)
)

// Matches yields the first capture group of each successive match of re in
// text. The sequence is finite and can be ranged over more than once.
func Matches(re *regexp.Regexp, text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for pos := 0; pos < len(text); {
			loc := re.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				return
			}
			if !yield(text[pos+loc[2] : pos+loc[3]]) {
				return
			}
			pos += loc[1]
		}
	}
}

// FrameMatches yields raw stream references found in frame markup:
// every file-assignment match, then every src-attribute match.
func FrameMatches(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, re := range []*regexp.Regexp{fileAssignment, srcAttribute} {
			for m := range Matches(re, text) {
				if !yield(m) {
					return
				}
			}
		}
	}
}

// FrameLinks resolves FrameMatches against the frame URL and classifies them.
// References that do not resolve to an HTTP(S) URL are dropped.
func FrameLinks(text string, frame *url.URL) iter.Seq[media.VideoLink] {
	return func(yield func(media.VideoLink) bool) {
		for ref := range FrameMatches(text) {
			file, err := httputil.Resolve(frame, ref)
			if err != nil {
				continue
			}
			if !yield(media.VideoLink{File: file, Format: Classify(file)}) {
				return
			}
		}
	}
}
