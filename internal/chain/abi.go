package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	methodCampaignCounter    = "campaignCounter"
	methodGetCampaignDetails = "getCampaignDetails"
	methodCreateCampaign     = "createCampaign"
)

// CampaignManagerABI covers the CampaignManager methods this bot calls.
const CampaignManagerABI = `[
  {"type":"function","name":"campaignCounter","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getCampaignDetails","stateMutability":"view",
   "inputs":[{"name":"campaignId","type":"uint256"}],
   "outputs":[
     {"name":"brand","type":"address"},
     {"name":"creator","type":"address"},
     {"name":"totalValue","type":"uint256"},
     {"name":"deadline","type":"uint256"},
     {"name":"targetLikes","type":"uint256"},
     {"name":"targetViews","type":"uint256"},
     {"name":"currentLikes","type":"uint256"},
     {"name":"currentViews","type":"uint256"},
     {"name":"paidAmount","type":"uint256"},
     {"name":"status","type":"uint8"}]},
  {"type":"function","name":"createCampaign","stateMutability":"payable",
   "inputs":[
     {"name":"creator","type":"address"},
     {"name":"totalValue","type":"uint256"},
     {"name":"durationDays","type":"uint256"},
     {"name":"targetLikes","type":"uint256"},
     {"name":"targetViews","type":"uint256"}],
   "outputs":[]}
]`

// ParseCampaignManagerABI parses CampaignManagerABI.
func ParseCampaignManagerABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(CampaignManagerABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse campaign manager abi: %w", err)
	}
	return parsed, nil
}
