// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

/*
Package api is the HTTP surface of Plainwiki, built on the chi router.

Every request passes through the session middleware, which resolves the
"session" cookie or an "Authorization: Bearer" header to an auth.Principal.
Handlers then ask authz.Authorize whether that principal may act:

  - site-wide capabilities (Administer, Discover, Create) are enforced by
    authz.Middleware on the route
  - article capabilities (View, Edit) need the article's metadata and are
    checked in the handler

A denial where logging in could help is a 401 AUTHENTICATION_REQUIRED,
every other denial a 403 FORBIDDEN.

Routes:

	POST /special:login                  login, sets the session cookie (rate limited)
	POST /special:logout                 clears the session cookie
	GET  /special:whoami                 current principal and site capabilities
	POST /special:change_password        change the caller's own password
	GET  /special:admin                  account overview (Administer)
	POST /special:admin:add_account      create an account (Administer, multi mode)
	POST /special:admin:change_password  reset a password (Administer)
	GET  /special:tree                   visible articles (Discover)
	POST /special:create                 create an article (Create)
	GET  /metrics                        Prometheus metrics
	GET  /{path}                         read an article (View, ?edit also needs Edit)
	POST /{path}                         update an article (Edit)
*/
package api
