package validation

import "regexp"

var (
	driveFilePattern  = regexp.MustCompile(`^https?://drive\.google\.com/file/d/([A-Za-z0-9_-]+)(?:[/?#].*)?$`)
	driveQueryPattern = regexp.MustCompile(`^https?://drive\.google\.com/[A-Za-z0-9/_.-]*\?(?:[^#]*&)?id=([A-Za-z0-9_-]+)(?:[&#].*)?$`)
)

// DriveLink accepts only Google Drive share links.
func DriveLink() Rule[string] {
	return Matches("must be a Google Drive link", driveFilePattern, driveQueryPattern)
}

// DriveFileID extracts the file id from a Drive link.
func DriveFileID(link string) (string, bool) {
	for _, p := range []*regexp.Regexp{driveFilePattern, driveQueryPattern} {
		if m := p.FindStringSubmatch(link); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// DriveImageURL is the embeddable thumbnail URL for a Drive file id.
func DriveImageURL(id string) string {
	return "https://drive.google.com/thumbnail?id=" + id + "&sz=w1200"
}
