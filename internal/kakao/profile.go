package kakao

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"kakao-login/internal/domain"
)

type userMeResponse struct {
	ID           json.RawMessage `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
	Properties struct {
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"properties"`
}

// ParseProfile decodifica la respuesta de /v2/user/me. El id puede venir
// como número o como string; ambos se normalizan a texto decimal.
func ParseProfile(body []byte) (domain.KakaoProfile, error) {
	var me userMeResponse
	if err := json.Unmarshal(body, &me); err != nil {
		return domain.KakaoProfile{}, fmt.Errorf("%w: %w", ErrMalformedProfile, err)
	}

	id, err := parseID(me.ID)
	if err != nil {
		return domain.KakaoProfile{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return domain.KakaoProfile{}, fmt.Errorf("%w: %w", ErrMalformedProfile, err)
	}

	nickname := me.Properties.Nickname
	if nickname == "" {
		nickname = me.KakaoAccount.Profile.Nickname
	}
	image := me.Properties.ProfileImage
	if image == "" {
		image = me.KakaoAccount.Profile.ProfileImageURL
	}

	return domain.KakaoProfile{
		ID:              id,
		Email:           strings.TrimSpace(me.KakaoAccount.Email),
		Nickname:        nickname,
		ProfileImageURL: image,
		Raw:             raw,
	}, nil
}

func parseID(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", fmt.Errorf("%w: missing id", ErrMalformedProfile)
	}

	var id string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return "", fmt.Errorf("%w: id: %w", ErrMalformedProfile, err)
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return "", fmt.Errorf("%w: id: %w", ErrMalformedProfile, err)
		}
		id = n.String()
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: missing id", ErrMalformedProfile)
	}
	return id, nil
}
