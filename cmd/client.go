package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"moneymarket/pkg/id"
	"moneymarket/pkg/resthttp"
	"moneymarket/service/session"

	"github.com/spf13/cobra"
)

var apiHost string

func init() {
	rootCmd.PersistentFlags().StringVar(&apiHost, "host", "http://localhost:9000", "api server of the client commands")
}

// issueToken access token of account signed with the configured secret
func issueToken(account string, ttl time.Duration) (string, error) {
	if cfg.Auth.Secret == "" {
		return "", errors.New("auth.secret not configured")
	}

	var issuer string
	if len(cfg.Auth.Issuers) > 0 {
		issuer = cfg.Auth.Issuers[0]
	}

	return session.Sign([]byte(cfg.Auth.Secret), issuer, account, ttl)
}

// callAPI requests the api server as account, the data of the response is returned
func callAPI(ctx context.Context, method, path, account string, body interface{}) (json.RawMessage, error) {
	req := resthttp.WithRequestID(ctx, id.GenTraceID())

	if account != "" {
		token, err := issueToken(account, time.Minute)
		if err != nil {
			return nil, err
		}

		req.SetAuthToken(token)
	}

	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, apiHost+path)
	if err != nil {
		return nil, err
	}

	var out struct {
		Data json.RawMessage `json:"data"`
	}

	if err := resthttp.ParseResponse(resp, &out); err != nil {
		return nil, err
	}

	return out.Data, nil
}

// printAPI calls the api and prints the data of the response
func printAPI(cmd *cobra.Command, method, path, account string, body interface{}) {
	data, err := callAPI(cmd.Context(), method, path, account, body)
	if err != nil {
		cmd.PrintErrln(err)
		return
	}

	cmd.Println(string(data))
}
