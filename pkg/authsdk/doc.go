/*
Package authsdk provides a client SDK for the chat auth service.

# Overview

The service keeps a login session in three cookies named
"<prefix>-accessToken", "<prefix>-refreshToken" and "<prefix>-synchronize".
SDKClient carries a cookie jar, so it behaves like a single browser: every
call sends whatever cookies the service set on earlier calls.

	client := authsdk.NewSDKClient("https://auth.example.com", "chatauth")

	_, err := client.Register(ctx, authsdk.RegisterRequest{
		Email:           "a@example.com",
		Password:        "Pw1!aaaa",
		ConfirmPassword: "Pw1!aaaa",
	})

	err = client.ConfirmRegistration(ctx, "a@example.com", code)

	login, err := client.Login(ctx, "a@example.com", "Pw1!aaaa")

	me, err := client.CurrentUser(ctx)

	// Later, when the access token has expired
	_, err = client.Refresh(ctx)

	err = client.Logout(ctx)

# Error Handling

Every non-success response is returned as *APIError carrying the status and
the {message, details} body. Details is only filled in when the service
runs outside production.

	me, err := client.CurrentUser(ctx)
	switch {
	case authsdk.IsUnauthorized(err):
		// no session, log in again
	case authsdk.IsPartialContent(err):
		// signed in, but the provider profile has no email yet
	}

# Cookies

Cookie and SetCookie read and write the jar directly. Tests use them to
check the session cookies or to drop one and watch the service refuse.
*/
package authsdk
