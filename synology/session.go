package synology

import (
	"context"
	"fmt"
	"net/url"
)

const authLoginVersion = 3

// Session is an authenticated login. It carries the sid for every call made
// through it and is invalidated by Logout.
type Session struct {
	client  *Client
	sid     string
	account string
}

// Login authenticates against SYNO.API.Auth and returns the session.
// SYNO.API.Auth must have been discovered with QueryAPIInfo.
func (c *Client) Login(ctx context.Context, account, passwd string) (*Session, error) {
	return c.LoginWithVersion(ctx, authLoginVersion, account, passwd)
}

// LoginWithVersion is Login with an explicit SYNO.API.Auth version. The
// version is clamped into the discovered range.
func (c *Client) LoginWithVersion(ctx context.Context, version int, account, passwd string) (*Session, error) {
	params := url.Values{
		"account": {account},
		"passwd":  {passwd},
		"session": {c.sessionName},
		"format":  {"sid"},
	}

	var data struct {
		SID string `json:"sid"`
	}
	err := c.get(ctx, request{
		api:     APIAuth,
		version: c.version(APIAuth, version),
		method:  "login",
		params:  params,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.SID == "" {
		return nil, fmt.Errorf("%w: login returned no sid", ErrUnexpectedResponse)
	}

	c.logger.Info().Str("account", account).Msg("Logged in to Download Station")
	return &Session{client: c, sid: data.SID, account: account}, nil
}

// SID returns the session token, or "" after logout.
func (s *Session) SID() string {
	return s.sid
}

// Account returns the account the session was opened for.
func (s *Session) Account() string {
	return s.account
}

// Client returns the client the session was opened on.
func (s *Session) Client() *Client {
	return s.client
}

// Logout invalidates the session on the server.
func (s *Session) Logout(ctx context.Context) error {
	if s == nil || s.sid == "" {
		return ErrNoSession
	}

	err := s.client.get(ctx, request{
		api:     APIAuth,
		version: s.client.version(APIAuth, 1),
		method:  "logout",
		params:  url.Values{"session": {s.client.sessionName}},
		sid:     s.sid,
	}, nil)
	if err != nil {
		return err
	}

	s.sid = ""
	s.client.logger.Info().Str("account", s.account).Msg("Logged out of Download Station")
	return nil
}

// call issues an authenticated request.
func (s *Session) call(ctx context.Context, api string, version int, method string, params url.Values, dest any) error {
	if s.sid == "" {
		return ErrNoSession
	}
	return s.client.get(ctx, request{
		api:     api,
		version: s.client.version(api, version),
		method:  method,
		params:  params,
		sid:     s.sid,
	}, dest)
}
