/*
Package easy configures and executes single HTTP requests.

A Handle is a mutable, caller owned description of one request: its URL,
method, headers, payload and credentials. The executor functions (Get, Post,
Put and Delete) configure the method on the handle, perform one blocking
transfer and return the status and complete body as a
response.BinaryResponse.

	h := easy.NewHandle()
	if err := h.SetURL("https://api.example.com/v1/users"); err != nil {
		return err
	}

	var headers easy.HeaderList
	_ = easy.AddHeader(&headers, "Accept", "application/json")
	h.SetHTTPHeaders(headers)

	res, err := easy.Get(ctx, h)

Executors never reset the handle afterwards. Reusing a handle for a different
kind of request requires reconfiguring it first, e.g. a handle used for Delete
keeps its custom verb until SetCustomRequest("") is called.

A Handle is not safe for concurrent use. Use one handle per in-flight
request.
*/
package easy
