// Package httpclient builds the HTTP clients used by load test workers.
//
// Every worker owns a client created by [NewClient], with a private
// transport and connection pool:
//
//	client, err := httpclient.NewClient(httpclient.Options{
//		Timeout: 30 * time.Second,
//		TLS:     httpclient.TLSOptions{TrustAll: true},
//	})
//	if err != nil {
//		return err
//	}
//	defer httpclient.Close(client)
//
// TrustAll disables certificate and hostname verification. It exists for
// testing servers with self-signed certificates and must not be used against
// anything you do not control.
package httpclient
