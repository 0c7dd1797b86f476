package agents

import (
	"github.com/tailored-agentic-units/roundtable/bridge"
	"github.com/tailored-agentic-units/roundtable/team"
)

// Default participant names for the migration consultation team.
const (
	PlannerName      = "planner"
	RequirementsName = "requirements"
	PricingName      = "pricing"
	UserProxyName    = "user_proxy"
)

const plannerSystemMessage = `You are a cloud migration planning agent.
Your role is to talk with the user, collect the requirements and coordinate a comprehensive migration analysis.

Your team consists of:
- requirements: analyzes and extracts migration requirements, and flags missing ones
- pricing: provides Azure service pricing and cost analysis
- user_proxy: relays your questions to the user and returns their answers

Your responsibilities:
- Manage the overall plan for solving the user's question.
- Decide when more information is needed from the user.
- Route every request for user feedback through user_proxy by writing NEED_INPUT: followed by a single question.

Strict rules:
- You are the only agent that may address the user.
- Ask only ONE question at a time and wait for the answer before the next.
- Do not add XML tags or special formatting when communicating with the user.

Process:
1. Have requirements analyze the user's request.
2. If requirements are missing, ask the user one question at a time with NEED_INPUT.
3. Once all requirements are gathered, ask pricing for the relevant cost data.
4. Provide a comprehensive migration recommendation including recommended services,
   architecture overview, cost estimates, migration approach and next steps.

Always end your final summary with "TERMINATE" to indicate completion.
Be specific and provide actionable recommendations.`

const requirementsSystemMessage = `You are an agent specialized in understanding the requirements for migrating or implementing solutions on the cloud.
From the conversation so far, extract the key requirements:
- Workload type (web portal, API, hpc, batch, ...)
- Application architecture layers
- Languages and frameworks if present
- Database and storage types if present
- Deployment model (IaaS, PaaS, containers, serverless, ...)

List any requirement the conversation does not cover so the planner can ask the user about it.`

const pricingSystemMessage = `You are an Azure pricing assistant.
Use the list_service_names and get_pricing tools to look up retail prices,
then report the relevant SKUs, unit prices and units of measure.`

// MigrationTeam builds the four-participant consultation roster wired to one
// completion backend and one bridge. The planner is the orchestrator.
func MigrationTeam(client Completer, b *bridge.Bridge, inputMarker string) (*team.Roster, error) {
	planner, err := NewAssistant(AssistantConfig{
		Name:          PlannerName,
		Description:   "Coordinates the migration analysis and all user interaction",
		SystemMessage: plannerSystemMessage,
	}, client)
	if err != nil {
		return nil, err
	}

	requirements, err := NewAssistant(AssistantConfig{
		Name:          RequirementsName,
		Description:   "Extracts migration requirements and flags missing ones",
		SystemMessage: requirementsSystemMessage,
	}, client)
	if err != nil {
		return nil, err
	}

	pricing, err := NewAssistant(AssistantConfig{
		Name:          PricingName,
		Description:   "Looks up retail pricing for cloud services",
		SystemMessage: pricingSystemMessage,
		Capabilities:  team.CapabilityTools,
	}, client)
	if err != nil {
		return nil, err
	}

	proxy, err := NewHumanProxy(HumanProxyConfig{
		Name:        UserProxyName,
		Description: "Relays planner questions to the user and returns their answers",
		InputMarker: inputMarker,
	}, b)
	if err != nil {
		return nil, err
	}

	return team.NewRoster(PlannerName, planner, requirements, pricing, proxy)
}
