package startgg

// SetsPerPage is the page size of the phase query
const SetsPerPage = 64

const phaseQuery = `query PhaseSets($phaseId: ID!, $page: Int!, $perPage: Int!) {
  phase(id: $phaseId) {
    id
    name
    phaseGroups {
      nodes {
        id
        displayIdentifier
        sets(page: $page, perPage: $perPage, sortType: STANDARD) {
          pageInfo { total totalPages }
          nodes {
            id
            round
            fullRoundText
            displayScore
            winnerId
            startAt
            completedAt
            slots {
              prereqId
              prereqType
              entrant { id name }
            }
          }
        }
      }
    }
  }
}`

const streamQueueQuery = `query StreamQueue($slug: String!) {
  tournament(slug: $slug) {
    streamQueue {
      stream { streamSource streamName }
      sets { id }
    }
  }
}`

const setQuery = `query SetDetail($setId: ID!) {
  set(id: $setId) {
    id
    displayScore
    fullRoundText
    startAt
    completedAt
    round
    totalGames
    winnerId
    phaseGroup {
      id
      displayIdentifier
      phase { id name }
    }
    slots {
      entrant {
        id
        name
        participants { gamerTag }
      }
      standing {
        placement
        stats { score { label value } }
      }
    }
  }
}`
