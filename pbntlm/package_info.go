// Package pbntlm allows you to configure the client to connect to the collector through a proxy
// server that uses NTLM authentication.
//
// Usage:
//
//	clientFactory, err := pbntlm.NewNTLMProxyHTTPClientFactory("http://my-proxy.com", "username",
//	    "password", "domain")
//	if err != nil {
//	    // there's some problem with the configuration
//	}
//	config := pagebeacon.Config{
//	    HTTP: pbcomponents.HTTPConfiguration().HTTPClientFactory(clientFactory),
//	}
package pbntlm
