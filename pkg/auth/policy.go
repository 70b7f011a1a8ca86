package auth

import (
	"github.com/aws/aws-lambda-go/events"
)

const (
	EffectAllow = "Allow"
	EffectDeny  = "Deny"

	// PrincipalID is reported for every authorizer decision
	PrincipalID = "user"
)

// GeneratePolicy builds the IAM policy an API Gateway token authorizer returns
func GeneratePolicy(effect, resource string) events.APIGatewayCustomAuthorizerResponse {
	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: PrincipalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: "2012-10-17",
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{"execute-api:Invoke"},
					Effect:   effect,
					Resource: []string{resource},
				},
			},
		},
	}
}
