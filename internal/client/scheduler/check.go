package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/avolkov/filedrop/internal/client/models"
)

// Default validation messages. Deployments can override any key through
// Options.Messages; ":param" placeholders are substituted at format time.
var defaultMessages = map[string]string{
	"accept_file_types": "The file type is not accepted.",
	"max_file_size":     "The file size is too big (limit is :maxFileSize KB).",
	"min_file_size":     "The file size is too small.",
}

type checker struct {
	minSize  int64
	maxSize  int64
	acceptRe *regexp.Regexp
	messages map[string]string
}

func newChecker(o Options) (*checker, error) {
	c := &checker{
		minSize:  o.MinFileSize,
		maxSize:  o.MaxFileSize,
		messages: make(map[string]string, len(defaultMessages)),
	}

	for k, v := range defaultMessages {
		c.messages[k] = v
	}
	for k, v := range o.Messages {
		c.messages[k] = v
	}

	if o.AcceptFileTypes != "" {
		re, err := regexp.Compile(`(?i)\.(` + o.AcceptFileTypes + `)$`)
		if err != nil {
			return nil, fmt.Errorf("accept_file_types: %w", err)
		}
		c.acceptRe = re
	}

	return c, nil
}

// validate attaches the first failing rule's message to the file. Files that
// already carry an error are left alone.
func (c *checker) validate(f *models.PendingFile) {
	if f.Error != "" {
		return
	}

	switch {
	case c.acceptRe != nil && !c.acceptRe.MatchString(f.Name):
		f.Error = c.message("accept_file_types", nil)
	case c.maxSize > 0 && f.Size > c.maxSize:
		f.Error = c.message("max_file_size", map[string]string{
			"maxFileSize": strconv.FormatInt(c.maxSize/1024, 10),
		})
	case c.minSize > 0 && f.Size < c.minSize:
		f.Error = c.message("min_file_size", nil)
	}
}

func (c *checker) message(key string, params map[string]string) string {
	msg := c.messages[key]
	for k, v := range params {
		msg = strings.ReplaceAll(msg, ":"+k, v)
	}
	return msg
}
