// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authclient

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/taibuivan/stories/internal/platform/apperr"
	"github.com/taibuivan/stories/internal/platform/respond"
)

// Proxy forwards requests to the provider's origin unchanged in path.
//
// Mounted at the provider's base path (e.g. /api/auth/*), it lets OAuth callbacks
// land on this origin so the provider's Set-Cookie applies to the application domain.
// Upstream failures are answered with a 502 envelope and logged by [respond.Error].
func Proxy(base *url.URL) http.Handler {
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host}

	return &httputil.ReverseProxy{
		Rewrite: func(request *httputil.ProxyRequest) {
			request.SetURL(origin)
			request.SetXForwarded()
		},
		ErrorHandler: func(writer http.ResponseWriter, request *http.Request, err error) {
			respond.Error(writer, request, apperr.BadGateway(err))
		},
	}
}
