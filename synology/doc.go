// Package synology provides a client for the Synology Download Station web API.
//
// Every call is an HTTP GET against <scheme>://<host>:<port>/webapi/<path> with
// the operation encoded in the query string (api, version, method, operation
// fields and, once logged in, _sid). Responses share one envelope:
//
//	{"success": true, "data": {...}}
//	{"success": false, "error": {"code": 400}}
//
// # Usage
//
// Resolve the API paths, log in, work through the returned Session and log out:
//
//	client, err := synology.NewClient(synology.BaseURL("nas.local", 5000, false), logger)
//	if err != nil {
//		return err
//	}
//
//	if _, err := client.QueryAPIInfo(ctx, synology.APIAuth, synology.APITask); err != nil {
//		return err
//	}
//
//	session, err := client.Login(ctx, "admin", "secret")
//	if err != nil {
//		return err
//	}
//	defer session.Logout(ctx)
//
//	tasks, err := session.ListTasks(ctx, synology.TaskListOptions{
//		Additional: []string{synology.AdditionalDetail, synology.AdditionalTransfer},
//	})
//
// # Error Handling
//
// A response with success=false is returned as *APIError. Its Message method
// maps the numeric code through the documented per-API tables:
//
//	var apiErr *synology.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Println(apiErr.Message()) // e.g. "No default destination"
//	}
//
// Calling an API that was not discovered fails with ErrAPINotAvailable before
// any request is sent. The client never retries.
package synology
