/*
Copyright 2020 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package version

import (
	"net/http"
	"strings"
)

// Product is the name reported to remote servers.
const Product = "tarsctl"

// UserAgent returns the value of the "User-Agent" header for the current build, the
// comments describe the purpose of the request (e.g. the dataset being downloaded).
func UserAgent(comments ...string) string {
	info := GetInfo()

	ua := strings.Builder{}
	ua.WriteString(Product)
	ua.WriteRune('/')
	ua.WriteString(strings.TrimPrefix(info.Version, "v"))

	var cs []string
	if strings.Contains(info.Version, "-") && info.BuildMetadata != "" {
		cs = append(cs, info.BuildMetadata)
	}
	for _, c := range comments {
		c = strings.TrimSpace(strings.Trim(strings.TrimSpace(c), "()"))
		if c != "" {
			cs = append(cs, c)
		}
	}
	if len(cs) > 0 {
		ua.WriteString(" (" + strings.Join(cs, "; ") + ")")
	}

	return ua.String()
}

// Transport sets the "User-Agent" header on requests that do not already have one.
type Transport struct {
	// UserAgent is the header value
	UserAgent string
	// Base is the transport to delegate to, the system default is used if nil
	Base http.RoundTripper
}

// NewTransport wraps the (possibly nil) transport with the user agent of the current build.
func NewTransport(base http.RoundTripper, comments ...string) *Transport {
	return &Transport{UserAgent: UserAgent(comments...), Base: base}
}

// RoundTrip sets the header on a copy of the request and delegates to the base transport.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" && t.UserAgent != "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.UserAgent)
	}

	if t.Base != nil {
		return t.Base.RoundTrip(req)
	}
	return http.DefaultTransport.RoundTrip(req)
}
