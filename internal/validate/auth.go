package validate

import (
	"encoding/json"
	"io"
	"strings"
)

// SignUpInput は検証済みのサインアップパラメータ。
type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

// signUpRequest はサインアップリクエストのボディ。
type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// DecodeSignUp はサインアップリクエストを解析・検証する。
func DecodeSignUp(body io.Reader) (*SignUpInput, map[string]string, error) {
	var req signUpRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, nil, ErrMalformedJSON
	}

	fields := make(map[string]string)

	if msg := Email(req.Email); msg != "" {
		fields["email"] = msg
	}
	if msg := Password(req.Password); msg != "" {
		fields["password"] = msg
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		fields["name"] = "name must not be empty"
	}

	if len(fields) > 0 {
		return nil, fields, nil
	}
	return &SignUpInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Name:     name,
	}, nil, nil
}

// SignInInput は検証済みのサインインパラメータ。
type SignInInput struct {
	Email    string
	Password string
}

// signInRequest はサインインリクエストのボディ。
type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DecodeSignIn はサインインリクエストを解析・検証する。
func DecodeSignIn(body io.Reader) (*SignInInput, map[string]string, error) {
	var req signInRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, nil, ErrMalformedJSON
	}

	fields := make(map[string]string)

	if msg := Email(req.Email); msg != "" {
		fields["email"] = msg
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	}

	if len(fields) > 0 {
		return nil, fields, nil
	}
	return &SignInInput{Email: strings.TrimSpace(req.Email), Password: req.Password}, nil, nil
}
